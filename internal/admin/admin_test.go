package admin

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contact-agenda-go/internal/models"
	"contact-agenda-go/internal/store"
	"contact-agenda-go/internal/testutil"
)

func seed(t *testing.T, n int) (*store.Store, *Site) {
	t.Helper()
	ctx := context.Background()
	s := store.New(testutil.NewDB(t))
	cats, err := s.EnsureCategories(ctx, []string{"Amigo(a)", "Família"})
	require.NoError(t, err)

	contacts := make([]models.Contact, 0, n)
	for i := 1; i <= n; i++ {
		c := models.NewContact()
		c.FirstName = fmt.Sprintf("Name%02d", i)
		c.LastName = "Silva"
		if i%5 == 0 {
			c.LastName = "Moreira"
		}
		c.Email = fmt.Sprintf("c%d@example.com", i)
		c.Phone = "555"
		c.CategoryID = cats[i%2].ID
		contacts = append(contacts, *c)
	}
	require.NoError(t, s.BulkCreateContacts(ctx, contacts, 50))
	return s, NewSite(s)
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, "id desc", ContactAdmin.OrderClause())
	assert.Equal(t, "id", CategoryAdmin.OrderClause())
	assert.True(t, ContactAdmin.IsEditable("show"))
	assert.False(t, ContactAdmin.IsEditable("email"))
}

func TestContactChangeListPaging(t *testing.T) {
	_, site := seed(t, 23)
	ctx := context.Background()

	cl, err := site.ContactChangeList(ctx, "", 1, false)
	require.NoError(t, err)
	assert.Equal(t, int64(23), cl.Total)
	assert.Equal(t, 3, cl.Pages)
	require.Len(t, cl.Rows, 10)
	assert.Equal(t, uint(23), cl.Rows[0].ID)
	assert.Equal(t, ContactAdmin.ListDisplay, cl.Columns)
	assert.Len(t, cl.Rows[0].Values, 6)
	assert.Equal(t, "Name23", cl.Rows[0].Values["first_name"])
	assert.Equal(t, true, cl.Rows[0].Values["show"])

	cl, err = site.ContactChangeList(ctx, "", 3, false)
	require.NoError(t, err)
	require.Len(t, cl.Rows, 3)
	assert.Equal(t, uint(1), cl.Rows[2].ID)

	_, err = site.ContactChangeList(ctx, "", 4, false)
	assert.ErrorIs(t, err, ErrInvalidPage)
	_, err = site.ContactChangeList(ctx, "", 0, false)
	assert.ErrorIs(t, err, ErrInvalidPage)
}

func TestContactChangeListShowAll(t *testing.T) {
	_, site := seed(t, 23)
	cl, err := site.ContactChangeList(context.Background(), "", 1, true)
	require.NoError(t, err)
	assert.True(t, cl.ShowAll)
	assert.Len(t, cl.Rows, 23)
	assert.Equal(t, 1, cl.Pages)
}

func TestContactChangeListShowAllOverLimit(t *testing.T) {
	_, site := seed(t, 105)
	cl, err := site.ContactChangeList(context.Background(), "", 2, true)
	require.NoError(t, err)
	assert.False(t, cl.ShowAll)
	assert.Len(t, cl.Rows, 10)
	assert.Equal(t, 11, cl.Pages)
	assert.Equal(t, uint(95), cl.Rows[0].ID)
}

func TestContactChangeListSearch(t *testing.T) {
	_, site := seed(t, 23)
	ctx := context.Background()

	cl, err := site.ContactChangeList(ctx, "moreira", 1, false)
	require.NoError(t, err)
	assert.Equal(t, int64(4), cl.Total)

	cl, err = site.ContactChangeList(ctx, "name1 silva", 1, false)
	require.NoError(t, err)
	// Name10..Name19 except Name10 and Name15, which are Moreira
	assert.Equal(t, int64(8), cl.Total)

	// email is displayed but not searchable
	cl, err = site.ContactChangeList(ctx, "c7@example.com", 1, false)
	require.NoError(t, err)
	assert.Zero(t, cl.Total)
	assert.Empty(t, cl.Rows)
	assert.Equal(t, 1, cl.Pages)
}

func TestUpdateEditable(t *testing.T) {
	s, site := seed(t, 3)
	ctx := context.Background()

	require.NoError(t, site.UpdateEditable(ctx, map[uint]map[string]any{
		1: {"show": false},
		3: {"show": false},
	}))
	c, err := s.GetContact(ctx, 1, false)
	require.NoError(t, err)
	assert.False(t, c.Show)
	_, err = s.GetContact(ctx, 2, true)
	assert.NoError(t, err)

	err = site.UpdateEditable(ctx, map[uint]map[string]any{2: {"show": false, "email": "x@y.z"}})
	assert.ErrorIs(t, err, ErrNotEditable)
	_, err = s.GetContact(ctx, 2, true)
	assert.NoError(t, err)

	err = site.UpdateEditable(ctx, map[uint]map[string]any{2: {"show": "no"}})
	assert.ErrorIs(t, err, ErrInvalidValue)

	err = site.UpdateEditable(ctx, map[uint]map[string]any{99: {"show": true}})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCategoryChangeList(t *testing.T) {
	_, site := seed(t, 0)
	cl, err := site.CategoryChangeList(context.Background())
	require.NoError(t, err)
	require.Len(t, cl.Rows, 2)
	assert.Equal(t, []string{"name"}, cl.Columns)
	assert.Equal(t, "Amigo(a)", cl.Rows[0].Values["name"])
	assert.Equal(t, "Família", cl.Rows[1].Values["name"])
}
