package lostfound

import (
	"context"
	"fmt"
	"net/url"

	"github.com/erazemk/najdeno/internal/model"
)

// LostClaims lists the users claiming to have found a lost item.
func (c *Client) LostClaims(ctx context.Context, itemID string) ([]model.Claim, error) {
	var claims []model.Claim
	if err := c.getJSON(ctx, "/lost/"+url.PathEscape(itemID)+"/claims", nil, &claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// FoundClaims lists the users claiming to own a found item.
func (c *Client) FoundClaims(ctx context.Context, itemID string) ([]model.Claim, error) {
	var claims []model.Claim
	if err := c.getJSON(ctx, "/found/"+url.PathEscape(itemID)+"/claims", nil, &claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ItemClaims lists claims for an item of known variant.
func (c *Client) ItemClaims(ctx context.Context, kind model.Kind, itemID string) ([]model.Claim, error) {
	if kind == model.KindLost {
		return c.LostClaims(ctx, itemID)
	}
	return c.FoundClaims(ctx, itemID)
}

// ClaimLost records that userID found the given lost item. Requires an
// identity; fails before any request is sent otherwise.
func (c *Client) ClaimLost(ctx context.Context, itemID, userID string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}
	return c.postJSON(ctx, "/lost/"+url.PathEscape(itemID)+"/claim", map[string]string{"userId": userID}, nil)
}

// ClaimFound records that userID asserts ownership of the given found item.
func (c *Client) ClaimFound(ctx context.Context, itemID, userID string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}
	return c.postJSON(ctx, "/found/"+url.PathEscape(itemID)+"/claim", map[string]string{"userId": userID}, nil)
}

// ClaimItem submits the one-click claim for an item of known variant.
func (c *Client) ClaimItem(ctx context.Context, kind model.Kind, itemID, userID string) error {
	switch kind {
	case model.KindLost:
		return c.ClaimLost(ctx, itemID, userID)
	case model.KindFound:
		return c.ClaimFound(ctx, itemID, userID)
	default:
		return fmt.Errorf("unknown item kind %q", kind)
	}
}

// SubmitClaim sends the richer free-text claim form. This is a separate
// operation from the one-click claim; the service supports both
// independently.
func (c *Client) SubmitClaim(ctx context.Context, itemID, userID, name, email, message string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}
	return c.postJSON(ctx, "/claims/"+url.PathEscape(itemID), map[string]string{
		"userId":  userID,
		"name":    name,
		"email":   email,
		"message": message,
	}, nil)
}
