package service

import (
	"testing"

	"crypto_cashier/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromotionLifecycle(t *testing.T) {
	f := newFixture(t, nil)
	promos := NewPromotionService(f.promos, f.audit)

	p, err := promos.Create(ctx, adminMeta, PromotionInput{Title: strPtr("Weekend bonus"), ImageURL: strPtr("/img/weekend.png")})
	require.NoError(t, err)
	assert.True(t, p.Active)

	_, err = promos.Create(ctx, adminMeta, PromotionInput{Title: strPtr("Hidden"), Active: boolPtr(false)})
	require.NoError(t, err)

	active, err := promos.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, p.ID, active[0].ID)

	upd, err := promos.Update(ctx, adminMeta, p.ID, PromotionInput{Description: strPtr("20% extra")})
	require.NoError(t, err)
	assert.Equal(t, "Weekend bonus", upd.Title)
	assert.Equal(t, "20% extra", upd.Description)

	require.NoError(t, promos.Delete(ctx, adminMeta, p.ID))
	err = promos.Delete(ctx, adminMeta, p.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestPromotionValidation(t *testing.T) {
	f := newFixture(t, nil)
	promos := NewPromotionService(f.promos, f.audit)

	_, err := promos.Create(ctx, adminMeta, PromotionInput{Title: strPtr("  ")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = promos.Create(ctx, adminMeta, PromotionInput{Title: strPtr("x"), ImageURL: strPtr("javascript:alert(1)")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = promos.Update(ctx, adminMeta, "missing", PromotionInput{Title: strPtr("x")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
