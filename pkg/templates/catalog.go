package templates

import (
	i18n "github.com/goliatone/go-i18n"
)

// Translations returns the built-in notification copy. Values are go-template
// sources; placeholders read from the notification data.
func Translations() i18n.Translations {
	return i18n.Translations{
		"pt": newCatalog("pt", map[string]string{
			"editor_promotion.title":   "Promoção a Editor",
			"editor_promotion.message": "Parabéns! Foi promovido a editor e agora pode criar e modificar conteúdos.",
			"group_invitation.title":   "Convite para Grupo",
			"group_invitation.message": `Você foi convidado para o grupo "{{ group_name }}"`,
			"file_share.title":         "Ficheiro Partilhado",
			"file_share.message":       `{{ shared_by }} partilhou o ficheiro "{{ file_name }}" consigo`,
			"email.subject":            "{{ title }}",
			"email.body":               "<p>Olá {{ username }},</p><p>{{ message }}</p>",
		}),
		"en": newCatalog("en", map[string]string{
			"editor_promotion.title":   "Promoted to Editor",
			"editor_promotion.message": "Congratulations! You were promoted to editor and can now create and edit content.",
			"group_invitation.title":   "Group Invitation",
			"group_invitation.message": `You were invited to the group "{{ group_name }}"`,
			"file_share.title":         "File Shared",
			"file_share.message":       `{{ shared_by }} shared the file "{{ file_name }}" with you`,
			"email.subject":            "{{ title }}",
			"email.body":               "<p>Hello {{ username }},</p><p>{{ message }}</p>",
		}),
	}
}

func newCatalog(locale string, entries map[string]string) *i18n.TranslationCatalog {
	catalog := &i18n.TranslationCatalog{
		Locale:   i18n.Locale{Code: locale},
		Messages: make(map[string]i18n.Message),
	}
	for key, template := range entries {
		msg := i18n.Message{}
		msg.SetContent(template)
		catalog.Messages[key] = msg
	}
	return catalog
}
