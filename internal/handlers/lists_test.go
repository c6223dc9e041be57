package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailcast/internal/handlers"
	"github.com/dmitrymomot/mailcast/internal/recipientlist"
)

func TestLists(t *testing.T) {
	t.Parallel()

	t.Run("create, read, update and delete", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, nil)

		resp := env.do(t, http.MethodGet, "/api/lists", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, decodeBody[[]recipientlist.List](t, resp))

		resp = env.do(t, http.MethodPost, "/api/lists", handlers.ListRequest{
			Name:   " Customers ",
			Emails: []string{"a@x.io", " a@x.io", "", "b@x.io"},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		location := resp.Header.Get("Location")
		created := decodeBody[recipientlist.List](t, resp)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "/api/lists/"+created.ID, location)
		assert.Equal(t, "Customers", created.Name)
		assert.Equal(t, []string{"a@x.io", "b@x.io"}, created.Emails)

		resp = env.do(t, http.MethodGet, location, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, created.ID, decodeBody[recipientlist.List](t, resp).ID)

		resp = env.do(t, http.MethodPut, location, handlers.ListRequest{
			Name:        "Customers 2024",
			Emails:      []string{"c@x.io"},
			Description: "renewals",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		updated := decodeBody[recipientlist.List](t, resp)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, []string{"c@x.io"}, updated.Emails)
		assert.Equal(t, "renewals", updated.Description)
		assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))

		resp = env.do(t, http.MethodDelete, location, nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
		resp.Body.Close()

		resp = env.do(t, http.MethodGet, location, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		body := decodeBody[handlers.ErrorResponse](t, resp)
		assert.Equal(t, recipientlist.ErrNotFound.Error(), body.Error)
		assert.NotEmpty(t, body.RequestID)
	})

	t.Run("newest list first", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, nil)
		for _, name := range []string{"first", "second"} {
			resp := env.do(t, http.MethodPost, "/api/lists", handlers.ListRequest{Name: name, Emails: []string{}})
			require.Equal(t, http.StatusCreated, resp.StatusCode)
			resp.Body.Close()
		}

		resp := env.do(t, http.MethodGet, "/api/lists", nil)
		lists := decodeBody[[]recipientlist.List](t, resp)
		require.Len(t, lists, 2)
		assert.Equal(t, "second", lists[0].Name)
		assert.Equal(t, "first", lists[1].Name)
	})

	t.Run("name is required", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, nil)

		resp := env.do(t, http.MethodPost, "/api/lists", handlers.ListRequest{Emails: []string{"a@x.io"}})
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("update of unknown list", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, nil)

		resp := env.do(t, http.MethodPut, "/api/lists/missing", handlers.ListRequest{Name: "x", Emails: []string{}})
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestLists_Parse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  handlers.ParseRequest
		want []string
		code int
	}{
		{
			name: "pasted text",
			req:  handlers.ParseRequest{Text: "a@x.io, b@x.io;\nnot an address\r\nc@x.io"},
			want: []string{"a@x.io", "b@x.io", "c@x.io"},
			code: http.StatusOK,
		},
		{
			name: "csv",
			req:  handlers.ParseRequest{Format: handlers.FormatCSV, Text: "name,email\nAnn,ann@x.io\nBob,\"bob@x.io\"\n"},
			want: []string{"ann@x.io", "bob@x.io"},
			code: http.StatusOK,
		},
		{
			name: "unknown format",
			req:  handlers.ParseRequest{Format: "xml", Text: "a@x.io"},
			code: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t, nil)
			resp := env.do(t, http.MethodPost, "/api/lists/parse", tt.req)
			require.Equal(t, tt.code, resp.StatusCode)
			if tt.code != http.StatusOK {
				resp.Body.Close()
				return
			}

			body := decodeBody[handlers.ParseResponse](t, resp)
			assert.Equal(t, tt.want, body.Emails)
			assert.Equal(t, len(tt.want), body.Count)
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	resp := env.do(t, http.MethodGet, "/api/nothing-here", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decodeBody[handlers.ErrorResponse](t, resp)
	assert.Equal(t, "route not found", body.Error)
}
