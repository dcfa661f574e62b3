package steps

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// storageState is a minimal JSON cookie/origin snapshot, per spec.md §6:
// "JSON with (at minimum) a cookies: [...] array; load ignores missing
// origins."
type storageState struct {
	Cookies []storageCookie   `json:"cookies"`
	Origins []json.RawMessage `json:"origins,omitempty"`
}

type storageCookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path,omitempty"`
	Expires  float64 `json:"expires,omitempty"`
	HTTPOnly bool    `json:"httpOnly,omitempty"`
	Secure   bool    `json:"secure,omitempty"`
}

type useStorageStateHandler struct{}

func (useStorageStateHandler) Execute(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) error {
	path, err := requireStrParam(params, "path")
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var state storageState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}

	cookies := make([]*proto.NetworkCookieParam, 0, len(state.Cookies))
	for _, c := range state.Cookies {
		cookies = append(cookies, &proto.NetworkCookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  proto.TimeSinceEpoch(c.Expires),
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
		})
	}
	return page.SetCookies(cookies)
}

func (useStorageStateHandler) DescribeSchema() Schema {
	return Schema{Name: "use_storage_state", Category: "session", Description: "apply a saved cookie snapshot to the browser context"}
}

type saveStorageStateHandler struct{}

func (saveStorageStateHandler) Execute(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) error {
	path, err := requireStrParam(params, "path")
	if err != nil {
		return err
	}
	cookies, err := page.Cookies([]string{})
	if err != nil {
		return err
	}
	state := storageState{Cookies: make([]storageCookie, 0, len(cookies))}
	for _, c := range cookies {
		state.Cookies = append(state.Cookies, storageCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  float64(c.Expires),
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
		})
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (saveStorageStateHandler) DescribeSchema() Schema {
	return Schema{Name: "save_storage_state", Category: "session", Description: "write the current cookie snapshot to disk"}
}
