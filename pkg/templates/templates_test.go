package templates

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-realtime-notifications/pkg/domain"
)

func newComposer(t *testing.T) *Composer {
	t.Helper()
	composer, err := New(Dependencies{DefaultLocale: "pt"})
	if err != nil {
		t.Fatalf("new composer: %v", err)
	}
	return composer
}

func TestComposeDefaultsToPortuguese(t *testing.T) {
	composer := newComposer(t)
	content, err := composer.Compose(context.Background(), domain.TypeEditorPromotion, "", nil)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if content.Title != "Promoção a Editor" {
		t.Fatalf("unexpected title %q", content.Title)
	}
	if content.Message != "Parabéns! Foi promovido a editor e agora pode criar e modificar conteúdos." {
		t.Fatalf("unexpected message %q", content.Message)
	}
	if content.Locale != "pt" {
		t.Fatalf("expected pt, got %s", content.Locale)
	}
}

func TestComposeSubstitutesPlaceholdersWithoutEscaping(t *testing.T) {
	composer := newComposer(t)
	content, err := composer.Compose(context.Background(), domain.TypeFileShare, "pt", map[string]any{
		"file_name": "Q&A.pdf",
		"shared_by": "rita",
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	want := `rita partilhou o ficheiro "Q&A.pdf" consigo`
	if content.Message != want {
		t.Fatalf("expected %q, got %q", want, content.Message)
	}
	if content.Title != "Ficheiro Partilhado" {
		t.Fatalf("unexpected title %q", content.Title)
	}
}

func TestComposeGroupInvitationInEnglish(t *testing.T) {
	composer := newComposer(t)
	content, err := composer.Compose(context.Background(), domain.TypeGroupInvitation, "en", map[string]any{
		"group_name": "Design",
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if content.Message != `You were invited to the group "Design"` {
		t.Fatalf("unexpected message %q", content.Message)
	}
	if content.UsedFallback {
		t.Fatalf("english is in the catalog, no fallback expected")
	}
}

func TestComposeFallsBackForUnknownLocale(t *testing.T) {
	composer := newComposer(t)
	content, err := composer.Compose(context.Background(), domain.TypeGroupInvitation, "fr", map[string]any{
		"group_name": "Design",
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if content.Locale != "pt" || !content.UsedFallback {
		t.Fatalf("expected pt fallback, got %+v", content)
	}
}

func TestComposeReportsMissingPlaceholders(t *testing.T) {
	composer := newComposer(t)
	_, err := composer.Compose(context.Background(), domain.TypeFileShare, "pt", map[string]any{"file_name": "a.pdf"})
	var schemaErr SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected schema error, got %v", err)
	}
	if len(schemaErr.Missing) != 1 || schemaErr.Missing[0] != "shared_by" {
		t.Fatalf("unexpected missing list %+v", schemaErr.Missing)
	}
}

func TestComposeRejectsTypesWithoutCopy(t *testing.T) {
	composer := newComposer(t)
	_, err := composer.Compose(context.Background(), domain.TypeContentUpdate, "pt", nil)
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestRenderEmailBody(t *testing.T) {
	composer := newComposer(t)
	result, err := composer.Render(context.Background(), RenderRequest{
		Key:    KeyEmailBody,
		Locale: "en",
		Data:   map[string]any{"username": "ana", "message": "You were invited"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "<p>Hello ana,</p><p>You were invited</p>"
	if result.Text != want {
		t.Fatalf("expected %q, got %q", want, result.Text)
	}
	if result.Locale != "en" {
		t.Fatalf("expected en, got %s", result.Locale)
	}
}
