package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSectionDataFillsDefaults(t *testing.T) {
	got := NormalizeSectionData("hero", `{"heading":"  Ship faster ","ctaHref":"","extra":1}`)
	want := map[string]any{
		"heading":         "Ship faster",
		"subheading":      "",
		"ctaLabel":        "Get in touch",
		"ctaHref":         "#contact",
		"backgroundImage": "",
		"extra":           float64(1),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected hero data (-want +got):\n%s", diff)
	}
}

func TestNormalizeSectionDataCoercesTypes(t *testing.T) {
	got := NormalizeSectionData("products", `{"limit":"4","featuredOnly":"true","heading":12}`)
	assert.Equal(t, 4, got["limit"])
	assert.Equal(t, true, got["featuredOnly"])
	assert.Equal(t, "12", got["heading"])

	got = NormalizeSectionData("news", `{"limit":-3}`)
	assert.Equal(t, 3, got["limit"])

	about := NormalizeSectionData("about", `{"highlights":["  one ", 2, "", "two"]}`)
	if diff := cmp.Diff([]string{"one", "two"}, about["highlights"]); diff != "" {
		t.Fatalf("unexpected highlights (-want +got):\n%s", diff)
	}
}

func TestNormalizeSectionDataInvalidJSON(t *testing.T) {
	got := NormalizeSectionData("contact", `{not json`)
	want := map[string]any{
		"heading": "Contact us",
		"intro":   "",
		"email":   "",
		"phone":   "",
		"address": "",
		"mapUrl":  "",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected contact data (-want +got):\n%s", diff)
	}

	unknown := NormalizeSectionData("banner", `{"color":"red"}`)
	assert.Equal(t, map[string]any{"color": "red"}, unknown)
	assert.Empty(t, NormalizeSectionData("banner", `[1,2]`))
}

func TestSectionServiceCreateListAndUpsert(t *testing.T) {
	ctx := context.Background()
	svc := NewSectionService(newTestRepositories(t).Sections)

	hero, err := svc.Create(ctx, SectionInput{Key: "Hero", Title: "Welcome", Data: json.RawMessage(`{"heading":"Hi"}`)})
	require.NoError(t, err)
	assert.Equal(t, "hero", hero.Key)
	assert.Equal(t, 0, hero.SortOrder)
	assert.True(t, hero.Enabled)

	hidden, err := svc.Create(ctx, SectionInput{Key: "careers", Enabled: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, 1, hidden.SortOrder)

	_, err = svc.Create(ctx, SectionInput{Key: "hero"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Create(ctx, SectionInput{Key: "about", Data: json.RawMessage(`[1]`)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	public, err := svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "hero", public[0].Key)

	_, err = svc.GetByKey(ctx, "careers", true)
	assert.ErrorIs(t, err, ErrSectionNotFound)

	updated, err := svc.Upsert(ctx, "careers", SectionInput{Title: "Join us", Enabled: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, hidden.ID, updated.ID)
	assert.Equal(t, "Join us", updated.Title)

	created, err := svc.Upsert(ctx, "contact", SectionInput{Title: "Contact"})
	require.NoError(t, err)
	assert.Equal(t, "contact", created.Key)
	assert.Equal(t, 2, created.SortOrder)
}

func TestSectionServiceReorderAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewSectionService(newTestRepositories(t).Sections)

	a, err := svc.Create(ctx, SectionInput{Key: "hero"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, SectionInput{Key: "news"})
	require.NoError(t, err)

	require.NoError(t, svc.Reorder(ctx, []uint{b.ID, a.ID}))
	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "news", all[0].Key)

	require.NoError(t, svc.Delete(ctx, a.ID))
	assert.ErrorIs(t, svc.Delete(ctx, a.ID), ErrSectionNotFound)
	_, err = svc.Get(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
