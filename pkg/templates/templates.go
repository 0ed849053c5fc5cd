package templates

import (
	"context"
	"errors"

	i18n "github.com/goliatone/go-i18n"
	internaltemplates "github.com/goliatone/go-realtime-notifications/internal/templates"
	"github.com/goliatone/go-realtime-notifications/pkg/domain"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/logger"
)

type (
	// Copy maps a notification type to its catalog keys.
	Copy = internaltemplates.Copy
	// Content is a composed title and message.
	Content = internaltemplates.Content
	// RenderRequest renders a single catalog key.
	RenderRequest = internaltemplates.RenderRequest
	// RenderResult is the rendered text plus the locale that served it.
	RenderResult = internaltemplates.RenderResult
	// SchemaError lists placeholders missing from the data.
	SchemaError = internaltemplates.SchemaError
)

const (
	KeyEmailSubject = internaltemplates.KeyEmailSubject
	KeyEmailBody    = internaltemplates.KeyEmailBody
)

var (
	ErrTemplateNotFound = internaltemplates.ErrTemplateNotFound
	DefaultCopies       = internaltemplates.DefaultCopies
)

// Dependencies wires the translator and locale settings. A nil Translator is
// built from Translations().
type Dependencies struct {
	Translator    i18n.Translator
	Fallbacks     i18n.FallbackResolver
	DefaultLocale string
	Copies        []Copy
	Logger        logger.Logger
}

// Composer produces localized notification copy.
type Composer struct {
	engine *internaltemplates.Service
	logger logger.Logger
}

// NewTranslator builds a translator over the built-in catalog.
func NewTranslator(defaultLocale string) (i18n.Translator, error) {
	if defaultLocale == "" {
		defaultLocale = "pt"
	}
	return i18n.NewSimpleTranslator(
		i18n.NewStaticStore(Translations()),
		i18n.WithTranslatorDefaultLocale(defaultLocale),
	)
}

// New instantiates the composer.
func New(deps Dependencies) (*Composer, error) {
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	if deps.Translator == nil {
		translator, err := NewTranslator(deps.DefaultLocale)
		if err != nil {
			return nil, err
		}
		deps.Translator = translator
	}
	if deps.Fallbacks == nil {
		resolver := i18n.NewStaticFallbackResolver()
		resolver.Set("pt-BR", "pt")
		resolver.Set("pt-PT", "pt")
		resolver.Set("en-US", "en")
		resolver.Set("en-GB", "en")
		deps.Fallbacks = resolver
	}

	opts := []internaltemplates.Option{
		internaltemplates.WithDefaultLocale(deps.DefaultLocale),
		internaltemplates.WithFallbackResolver(deps.Fallbacks),
	}
	if len(deps.Copies) > 0 {
		opts = append(opts, internaltemplates.WithCopies(deps.Copies...))
	}
	engine, err := internaltemplates.NewService(deps.Translator, opts...)
	if err != nil {
		return nil, err
	}
	return &Composer{engine: engine, logger: deps.Logger}, nil
}

// Compose renders the title and message of a notification type.
func (c *Composer) Compose(ctx context.Context, notificationType domain.NotificationType, locale string, data map[string]any) (Content, error) {
	content, err := c.engine.Compose(ctx, internaltemplates.ComposeRequest{
		Type:   notificationType,
		Locale: locale,
		Data:   data,
	})
	if err != nil {
		var schemaErr SchemaError
		if !errors.As(err, &schemaErr) {
			c.logger.Warn("compose notification copy failed",
				logger.String("type", string(notificationType)),
				logger.String("locale", locale),
				logger.Err(err),
			)
		}
		return Content{}, err
	}
	if content.UsedFallback {
		c.logger.Debug("notification copy fell back",
			logger.String("type", string(notificationType)),
			logger.String("requested", locale),
			logger.String("served", content.Locale),
		)
	}
	return content, nil
}

// Render renders a single catalog key.
func (c *Composer) Render(ctx context.Context, req RenderRequest) (RenderResult, error) {
	return c.engine.Render(ctx, req)
}

// DefaultLocale reports the fallback locale.
func (c *Composer) DefaultLocale() string {
	return c.engine.DefaultLocale()
}
