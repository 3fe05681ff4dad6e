package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-go-api/internal/repository"
	"github.com/noah-isme/classroom-go-api/internal/service"
)

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(data, target))
}

func authenticated(userID uint, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		c.Locals("user_role", role)
		return c.Next()
	}
}

type archiveStub struct {
	archived []repository.ArchiveKind
	restored []repository.ArchiveKind
	err      error
}

func (a *archiveStub) Archive(_ context.Context, kind repository.ArchiveKind, _ uint, _ service.Actor) error {
	if a.err != nil {
		return a.err
	}
	a.archived = append(a.archived, kind)
	return nil
}

func (a *archiveStub) Restore(_ context.Context, kind repository.ArchiveKind, _ uint, _ service.Actor) error {
	if a.err != nil {
		return a.err
	}
	a.restored = append(a.restored, kind)
	return nil
}
