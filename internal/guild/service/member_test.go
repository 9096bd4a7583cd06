package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemberDirectory(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	m1 := h.admit(t, "Member One", "one@example.com")
	m2 := h.admit(t, "Member Two", "two@example.com")

	got, err := h.members.GetByUserID(ctx, m1.UserID)
	require.NoError(t, err)
	require.Equal(t, m1, got)

	_, err = h.members.GetByUserID(ctx, "admin-without-membership")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = h.members.Get(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ")
	require.ErrorIs(t, err, ErrNotFound)

	off, err := h.members.SetActive(ctx, m2.ID, false)
	require.NoError(t, err)
	require.False(t, off.Active)

	active, err := h.members.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, m1.ID, active[0].ID)

	all, err := h.members.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	on, err := h.members.SetActive(ctx, m2.ID, true)
	require.NoError(t, err)
	require.True(t, on.Active)

	_, err = h.members.SetActive(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ", false)
	require.ErrorIs(t, err, ErrNotFound)
}
