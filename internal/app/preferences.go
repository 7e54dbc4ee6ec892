package app

import (
	"context"
	"strings"

	"study-quiz-service/internal/domain"
)

// PreferenceStore is an opaque key-value capability with no schema versioning.
type PreferenceStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Preferences validates keys in front of a PreferenceStore.
type Preferences struct {
	store PreferenceStore
}

func NewPreferences(store PreferenceStore) *Preferences {
	return &Preferences{store: store}
}

func (p *Preferences) Get(ctx context.Context, key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", domain.ErrEmptyPreferenceKey
	}
	return p.store.Get(ctx, key)
}

func (p *Preferences) Set(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return domain.ErrEmptyPreferenceKey
	}
	return p.store.Set(ctx, key, value)
}
