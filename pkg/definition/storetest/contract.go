// Package storetest holds the behavioural contract every definition.Store
// implementation must satisfy.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formrules/pkg/definition"
	"github.com/goliatone/go-formrules/pkg/model"
	"github.com/goliatone/go-formrules/pkg/rules"
)

// SampleForm returns the form the contract stores and reads back.
func SampleForm() definition.Form {
	return definition.Form{
		ID:          "contract-form",
		Title:       "Contract",
		Description: "Used by the store contract",
		Fields: []model.Field{
			{ID: "name", Type: model.FieldTypeText, Required: true, Label: "Name"},
			{ID: "email", Type: model.FieldTypeEmail},
			{ID: "tags", Type: model.FieldTypeCheckbox, Options: []string{"a", "b"}},
		},
		Rules: []rules.Rule{
			{FieldID: "email", Condition: rules.ConditionEmailValid, Action: rules.ActionShowSubmit},
			{FieldID: "name", Condition: rules.ConditionEquals, Value: "anon", Action: rules.ActionHideField, TargetID: "email"},
		},
	}
}

// RunStoreContract exercises store. It expects the store to start empty.
func RunStoreContract(t *testing.T, store definition.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get missing", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, definition.ErrNotFound)
	})

	t.Run("Put and Get", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, SampleForm()))

		loaded, err := store.Get(ctx, SampleForm().ID)
		require.NoError(t, err)
		assert.Equal(t, SampleForm(), loaded)
	})

	t.Run("Put overwrites", func(t *testing.T) {
		updated := SampleForm()
		updated.Title = "Updated"
		require.NoError(t, store.Put(ctx, updated))

		loaded, err := store.Get(ctx, updated.ID)
		require.NoError(t, err)
		assert.Equal(t, "Updated", loaded.Title)
	})

	t.Run("Put rejects invalid", func(t *testing.T) {
		err := store.Put(ctx, definition.Form{ID: " "})
		assert.ErrorIs(t, err, definition.ErrInvalid)

		err = store.Put(ctx, definition.Form{ID: "dup", Fields: []model.Field{{ID: "a"}, {ID: "a"}}})
		assert.ErrorIs(t, err, definition.ErrInvalid)
	})

	t.Run("List", func(t *testing.T) {
		second := SampleForm()
		second.ID = "another-form"
		require.NoError(t, store.Put(ctx, second))

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"another-form", "contract-form"}, ids)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "another-form"))
		require.NoError(t, store.Delete(ctx, SampleForm().ID))

		_, err := store.Get(ctx, SampleForm().ID)
		assert.ErrorIs(t, err, definition.ErrNotFound)
		assert.ErrorIs(t, store.Delete(ctx, SampleForm().ID), definition.ErrNotFound)

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}
