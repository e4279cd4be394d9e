package rest

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aussiebroadwan/bartab-sdk/internal/client/domain"
	"github.com/aussiebroadwan/bartab-sdk/internal/client/state"
)

// PatchSelf edits the logged-in account. The request body carries exactly
// the fields the caller marked present, nothing else, so the platform never
// sees an implicit clear. The response is the canonical account payload,
// returned as a patch for the caller to merge through the state pipeline.
func (c *Client) PatchSelf(ctx context.Context, edit domain.AccountEdit) (state.AccountPatch, error) {
	body := map[string]any{}
	if v, ok := edit.Username.Get(); ok {
		body["username"] = v
	}
	if v, ok := edit.Email.Get(); ok {
		body["email"] = v
	}
	if v, ok := edit.NewPassword.Get(); ok {
		body["new_password"] = v
	}
	if v, ok := edit.Avatar.Get(); ok {
		body["avatar"] = v // nil removes the avatar
	}
	if v, ok := edit.Password.Get(); ok {
		body["password"] = v
	}
	if v, ok := edit.Code.Get(); ok {
		body["code"] = v
	}

	var patch state.AccountPatch
	if err := c.do(ctx, http.MethodPatch, "/users/@me", nil, body, &patch); err != nil {
		return state.AccountPatch{}, err
	}
	return patch, nil
}

// Mentions lists recent messages mentioning the logged-in account.
func (c *Client) Mentions(ctx context.Context, q domain.MentionsQuery) ([]domain.Message, error) {
	query := url.Values{}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	query.Set("roles", strconv.FormatBool(q.Roles))
	query.Set("everyone", strconv.FormatBool(q.Everyone))
	if q.GuildID != "" {
		query.Set("guild", q.GuildID)
	}

	var messages []domain.Message
	if err := c.do(ctx, http.MethodGet, "/users/@me/mentions", query, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
