package templates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	i18n "github.com/goliatone/go-i18n"
	"github.com/goliatone/go-realtime-notifications/pkg/domain"
	gotemplate "github.com/goliatone/go-template"
)

// Service resolves catalog entries through the translator and renders them
// with payload data.
type Service struct {
	renderer      *gotemplate.Engine
	registry      *registry
	translator    i18n.Translator
	fallbacks     i18n.FallbackResolver
	defaultLocale string
	localeKey     string
	renderMu      sync.Mutex
}

// RenderRequest renders one catalog key.
type RenderRequest struct {
	Key    string
	Locale string
	Data   map[string]any
	// Plain disables HTML escaping of substituted values.
	Plain bool
}

// RenderResult carries the rendered text and the locale that served it.
type RenderResult struct {
	Text         string
	Locale       string
	UsedFallback bool
}

// ComposeRequest asks for the title and message of a notification type.
type ComposeRequest struct {
	Type   domain.NotificationType
	Locale string
	Data   map[string]any
}

// Content is the localized title and message of a notification.
type Content struct {
	Title        string
	Message      string
	Locale       string
	UsedFallback bool
}

type serviceOptions struct {
	defaultLocale string
	fallbacks     i18n.FallbackResolver
	helperFuncs   []map[string]any
	rendererOpts  []gotemplate.Option
	localeKey     string
	copies        []Copy
}

// Option configures the template service.
type Option func(*serviceOptions)

// WithDefaultLocale overrides the locale used when requests do not provide one.
func WithDefaultLocale(locale string) Option {
	return func(so *serviceOptions) {
		so.defaultLocale = locale
	}
}

// WithFallbackResolver wires a locale fallback resolver (e.g., pt-BR -> pt).
func WithFallbackResolver(resolver i18n.FallbackResolver) Option {
	return func(so *serviceOptions) {
		so.fallbacks = resolver
	}
}

// WithHelperFuncs registers additional helper functions with the renderer.
func WithHelperFuncs(funcs map[string]any) Option {
	return func(so *serviceOptions) {
		if len(funcs) == 0 {
			return
		}
		so.helperFuncs = append(so.helperFuncs, funcs)
	}
}

// WithRendererOptions forwards options directly to go-template's renderer.
func WithRendererOptions(opts ...gotemplate.Option) Option {
	return func(so *serviceOptions) {
		so.rendererOpts = append(so.rendererOpts, opts...)
	}
}

// WithLocaleKey customizes the key injected into the data map to expose the locale.
func WithLocaleKey(key string) Option {
	return func(so *serviceOptions) {
		if key == "" {
			return
		}
		so.localeKey = key
	}
}

// WithCopies replaces the default copy registrations.
func WithCopies(copies ...Copy) Option {
	return func(so *serviceOptions) {
		so.copies = copies
	}
}

// NewService builds the template service wiring the renderer and translator.
func NewService(translator i18n.Translator, opts ...Option) (*Service, error) {
	if translator == nil {
		return nil, ErrTranslatorRequired
	}

	settings := serviceOptions{
		localeKey: "locale",
		copies:    DefaultCopies(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&settings)
		}
	}

	defaultLocale := strings.TrimSpace(settings.defaultLocale)
	if defaultLocale == "" {
		if provider, ok := translator.(interface{ DefaultLocale() string }); ok {
			defaultLocale = provider.DefaultLocale()
		}
	}
	if defaultLocale == "" {
		defaultLocale = "pt"
	}

	rendererOpts := []gotemplate.Option{
		gotemplate.WithBaseDir("."),
	}
	rendererOpts = append(rendererOpts, settings.rendererOpts...)

	renderer, err := gotemplate.NewRenderer(rendererOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRendererConfig, err)
	}

	service := &Service{
		renderer:      renderer,
		registry:      newRegistry(),
		translator:    translator,
		fallbacks:     settings.fallbacks,
		defaultLocale: defaultLocale,
		localeKey:     settings.localeKey,
	}

	helpers := i18n.TemplateHelpers(translator, i18n.HelperConfig{
		LocaleKey:         service.localeKey,
		TemplateHelperKey: "t",
	})
	gotemplate.WithTemplateFunc(helpers)(renderer)
	for _, funcs := range settings.helperFuncs {
		gotemplate.WithTemplateFunc(funcs)(renderer)
	}

	for _, c := range settings.copies {
		service.registry.Upsert(c)
	}
	return service, nil
}

// DefaultLocale reports the locale used when a request has none.
func (s *Service) DefaultLocale() string {
	return s.defaultLocale
}

// RegisterCopy adds or replaces the copy of a notification type.
func (s *Service) RegisterCopy(c Copy) {
	if s == nil {
		return
	}
	s.registry.Upsert(c)
}

// Compose renders the title and message registered for req.Type.
func (s *Service) Compose(ctx context.Context, req ComposeRequest) (Content, error) {
	if s == nil {
		return Content{}, ErrRendererConfig
	}
	c, ok := s.registry.Lookup(req.Type)
	if !ok {
		return Content{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, req.Type)
	}
	if err := validateData(c, req.Data); err != nil {
		return Content{}, err
	}

	title, err := s.Render(ctx, RenderRequest{Key: c.TitleKey, Locale: req.Locale, Data: req.Data, Plain: true})
	if err != nil {
		return Content{}, err
	}
	message, err := s.Render(ctx, RenderRequest{Key: c.MessageKey, Locale: title.Locale, Data: req.Data, Plain: true})
	if err != nil {
		return Content{}, err
	}
	return Content{
		Title:        title.Text,
		Message:      message.Text,
		Locale:       title.Locale,
		UsedFallback: title.UsedFallback,
	}, nil
}

// Render resolves req.Key along the locale chain and renders it with req.Data.
func (s *Service) Render(ctx context.Context, req RenderRequest) (RenderResult, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return RenderResult{}, err
		}
	}
	if s == nil {
		return RenderResult{}, ErrRendererConfig
	}
	if strings.TrimSpace(req.Key) == "" {
		return RenderResult{}, ErrInvalidRenderRequest
	}

	source, locale, err := s.lookup(req.Key, req.Locale)
	if err != nil {
		return RenderResult{}, err
	}
	if req.Plain {
		source = "{% autoescape off %}" + source + "{% endautoescape %}"
	}

	payload := cloneData(req.Data)
	payload[s.localeKey] = locale

	s.renderMu.Lock()
	text, err := s.renderer.RenderString(source, payload)
	s.renderMu.Unlock()
	if err != nil {
		return RenderResult{}, fmt.Errorf("templates: render %s: %w", req.Key, err)
	}

	requested := strings.TrimSpace(req.Locale)
	return RenderResult{
		Text:         strings.TrimSpace(text),
		Locale:       locale,
		UsedFallback: requested != "" && !strings.EqualFold(locale, requested),
	}, nil
}

func (s *Service) lookup(key, requested string) (string, string, error) {
	for _, locale := range s.localeChain(requested) {
		source, err := s.translator.Translate(locale, key)
		if err == nil {
			return source, locale, nil
		}
		if !errors.Is(err, i18n.ErrMissingTranslation) {
			return "", "", fmt.Errorf("templates: translate %s/%s: %w", locale, key, err)
		}
	}
	return "", "", fmt.Errorf("%w: %s", ErrTemplateNotFound, key)
}

func (s *Service) localeChain(requested string) []string {
	chain := make([]string, 0, 4)
	appendUnique := func(locale string) {
		locale = strings.TrimSpace(locale)
		if locale == "" {
			return
		}
		for _, existing := range chain {
			if strings.EqualFold(existing, locale) {
				return
			}
		}
		chain = append(chain, locale)
	}

	appendUnique(requested)
	if s.fallbacks != nil && strings.TrimSpace(requested) != "" {
		for _, fb := range s.fallbacks.Resolve(requested) {
			appendUnique(fb)
		}
	}
	appendUnique(s.defaultLocale)
	appendUnique("en")
	return chain
}
