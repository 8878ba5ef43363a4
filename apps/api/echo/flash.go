package echoapi

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// flashCookie carries a one-time notice across a redirect.
const flashCookie = "accommodations_flash"

type flashKind string

const (
	flashSuccess flashKind = "success"
	flashInfo    flashKind = "info"
	flashWarning flashKind = "warning"
	flashDanger  flashKind = "danger"
)

type flashNotice struct {
	Kind    flashKind `json:"kind"`
	Message string    `json:"message"`
}

func (n flashNotice) normalize() (flashNotice, bool) {
	n.Message = strings.TrimSpace(n.Message)
	if n.Message == "" {
		return flashNotice{}, false
	}
	n.Kind = flashKind(strings.ToLower(strings.TrimSpace(string(n.Kind))))
	switch n.Kind {
	case flashSuccess, flashInfo, flashWarning, flashDanger:
		return n, true
	default:
		return flashNotice{}, false
	}
}

// setFlash stores a notice for the next page render.
func setFlash(ctx echo.Context, kind flashKind, message string) {
	notice, ok := flashNotice{Kind: kind, Message: message}.normalize()
	if !ok {
		return
	}
	payload, err := json.Marshal(notice)
	if err != nil {
		return
	}
	ctx.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
		Secure:   ctx.IsTLS(),
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads and clears the pending notice, if any.
func popFlash(ctx echo.Context) (flashNotice, bool) {
	cookie, err := ctx.Cookie(flashCookie)
	if err != nil || cookie == nil {
		return flashNotice{}, false
	}
	ctx.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   ctx.IsTLS(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(cookie.Value))
	if err != nil {
		return flashNotice{}, false
	}
	var notice flashNotice
	if err = json.Unmarshal(decoded, &notice); err != nil {
		return flashNotice{}, false
	}
	return notice.normalize()
}

// redirectWithFlash sets a notice and redirects to path.
func redirectWithFlash(ctx echo.Context, path string, kind flashKind, message string) error {
	setFlash(ctx, kind, message)
	return ctx.Redirect(http.StatusSeeOther, path)
}
