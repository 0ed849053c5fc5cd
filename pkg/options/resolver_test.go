package options

import (
	"testing"

	opts "github.com/goliatone/go-options"
)

func TestNewResolverUserLayerOverridesSystem(t *testing.T) {
	resolver, err := NewResolver(
		Snapshot{
			Scope: SystemScope,
			Data: map[string]any{
				"file_share":     true,
				"content_update": true,
			},
		},
		Snapshot{
			Scope: UserScope,
			Data:  map[string]any{"content_update": false},
		},
	)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	muted, trace, err := resolver.ResolveBool("content_update")
	if err != nil {
		t.Fatalf("resolve bool: %v", err)
	}
	if muted {
		t.Fatalf("expected user override to disable content updates")
	}
	if trace.Path != "content_update" || len(trace.Layers) != 2 {
		t.Fatalf("unexpected trace contents: %+v", trace)
	}

	inherited, _, err := resolver.ResolveBool("file_share")
	if err != nil {
		t.Fatalf("resolve inherited: %v", err)
	}
	if !inherited {
		t.Fatalf("expected system default to apply")
	}
}

func TestResolveBoolRejectsOtherTypes(t *testing.T) {
	resolver, err := NewResolver(Snapshot{Scope: SystemScope, Data: map[string]any{"file_share": "yes"}})
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	if _, _, err := resolver.ResolveBool("file_share"); err == nil {
		t.Fatalf("expected error for non boolean value")
	}
}

func TestNewResolverValidation(t *testing.T) {
	_, err := NewResolver()
	if err != ErrNoSnapshots {
		t.Fatalf("expected ErrNoSnapshots, got %v", err)
	}

	_, err = NewResolver(Snapshot{
		Scope: opts.Scope{},
		Data:  map[string]any{},
	})
	if err == nil {
		t.Fatalf("expected error for missing scope name")
	}
}
