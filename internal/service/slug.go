package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/sitecms/internal/store"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugRunes = 80

// Slugify lowercases input, folds diacritics ("Café" -> "cafe") and joins
// the remaining letters and digits with single dashes.
func Slugify(input string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, strings.ToLower(strings.TrimSpace(input)))
	if err != nil {
		folded = strings.ToLower(strings.TrimSpace(input))
	}

	var b strings.Builder
	count := 0
	pendingDash := false
	for _, r := range folded {
		if count >= maxSlugRunes {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
				count++
			}
			b.WriteRune(r)
			count++
			pendingDash = false
			continue
		}
		pendingDash = true
	}
	return strings.Trim(b.String(), "-")
}

// uniqueSlug returns a slug derived from source that no other record uses.
// Collisions get "-2", "-3"... appended.
func uniqueSlug[T any, PT store.Entity[T]](ctx context.Context, repo store.Repository[T], source string, self uint) (string, error) {
	base := Slugify(source)
	if base == "" {
		base = "item"
	}

	candidate := base
	for i := 2; i <= 500; i++ {
		existing, err := repo.FindOne(ctx, "slug", candidate)
		if errors.Is(err, store.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if PT(existing).GetID() == self {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", fmt.Errorf("%w: no free slug for %q", ErrConflict, source)
}
