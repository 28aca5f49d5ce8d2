package lostfound

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/erazemk/najdeno/internal/model"
)

// ListLost returns every lost item, or if userID is non-empty only the
// items reported by that user.
func (c *Client) ListLost(ctx context.Context, userID string) ([]model.LostItem, error) {
	var items []model.LostItem
	if err := c.getJSON(ctx, "/lost", userFilter(userID), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListFound returns every found item, optionally filtered by reporter.
func (c *Client) ListFound(ctx context.Context, userID string) ([]model.FoundItem, error) {
	var items []model.FoundItem
	if err := c.getJSON(ctx, "/found", userFilter(userID), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func userFilter(userID string) url.Values {
	if userID == "" {
		return nil
	}
	return url.Values{"userId": {userID}}
}

// GetLost fetches a single lost item by ID.
func (c *Client) GetLost(ctx context.Context, itemID string) (*model.LostItem, error) {
	var item model.LostItem
	if err := c.getJSON(ctx, "/lost/"+url.PathEscape(itemID), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// GetFound fetches a single found item by ID.
func (c *Client) GetFound(ctx context.Context, itemID string) (*model.FoundItem, error) {
	var item model.FoundItem
	if err := c.getJSON(ctx, "/found/"+url.PathEscape(itemID), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItem fetches an item whose variant the caller already knows, avoiding
// the two-probe lookup.
func (c *Client) GetItem(ctx context.Context, kind model.Kind, itemID string) (*model.Item, error) {
	switch kind {
	case model.KindLost:
		lost, err := c.GetLost(ctx, itemID)
		if err != nil {
			return nil, err
		}
		item := lost.Item()
		return &item, nil
	case model.KindFound:
		found, err := c.GetFound(ctx, itemID)
		if err != nil {
			return nil, err
		}
		item := found.Item()
		return &item, nil
	default:
		return nil, fmt.Errorf("unknown item kind %q", kind)
	}
}

// ResolveItem determines which variant an opaque ID names by probing the
// lost collection first and falling back to found. A first-probe failure
// means "try the second", not a terminal error; only when both probes miss
// is the item reported as not found.
func (c *Client) ResolveItem(ctx context.Context, itemID string) (*model.Item, error) {
	if lost, err := c.GetLost(ctx, itemID); err == nil && lost.ItemID != "" {
		item := lost.Item()
		return &item, nil
	}

	if found, err := c.GetFound(ctx, itemID); err == nil && found.ItemID != "" {
		item := found.Item()
		return &item, nil
	}

	return nil, ErrNotFound
}

// CreateLost reports a lost item.
func (c *Client) CreateLost(ctx context.Context, userID, name, description, location string, date time.Time, imageURL string) error {
	return c.postJSON(ctx, "/lost", map[string]any{
		"userId":       userID,
		"itemName":     name,
		"description":  description,
		"lostLocation": location,
		"lostDate":     date.Format(time.RFC3339),
		"imageUrl":     imageURL,
	}, nil)
}

// CreateFound reports a found item.
func (c *Client) CreateFound(ctx context.Context, userID, name, description, location string, date time.Time, imageURL string) error {
	return c.postJSON(ctx, "/found", map[string]any{
		"userId":        userID,
		"itemName":      name,
		"description":   description,
		"foundLocation": location,
		"foundDate":     date.Format(time.RFC3339),
		"imageUrl":      imageURL,
	}, nil)
}

// DeleteLost deletes a lost item. Deletion is terminal: the ID stops
// resolving entirely.
func (c *Client) DeleteLost(ctx context.Context, itemID string) error {
	return c.deleteReq(ctx, "/lost/"+url.PathEscape(itemID))
}

// DeleteFound deletes a found item.
func (c *Client) DeleteFound(ctx context.Context, itemID string) error {
	return c.deleteReq(ctx, "/found/"+url.PathEscape(itemID))
}

// DeleteItem deletes an item whose variant the caller already knows.
func (c *Client) DeleteItem(ctx context.Context, kind model.Kind, itemID string) error {
	switch kind {
	case model.KindLost:
		return c.DeleteLost(ctx, itemID)
	case model.KindFound:
		return c.DeleteFound(ctx, itemID)
	default:
		return fmt.Errorf("unknown item kind %q", kind)
	}
}

// ReportParams describes a new item report. The image is mandatory: reports
// without a photo are rejected before any request is issued.
type ReportParams struct {
	Kind        model.Kind
	UserID      string
	ItemName    string
	Description string
	Location    string
	Date        time.Time
	Image       io.Reader
	ImageName   string
}

// Report uploads the image and then creates the item of the requested
// variant with the returned image URL. Two sequential requests; a failed
// upload aborts the report.
func (c *Client) Report(ctx context.Context, p ReportParams) error {
	if p.UserID == "" {
		return ErrNotAuthenticated
	}
	if !p.Kind.Valid() {
		return ValidationError(fmt.Sprintf("unknown item kind %q", p.Kind))
	}
	if p.ItemName == "" {
		return ValidationError("item name is required")
	}
	if p.Image == nil {
		return ValidationError("an image of the item is required")
	}

	imageURL, err := c.Upload(ctx, p.Image, p.ImageName)
	if err != nil {
		return fmt.Errorf("uploading image: %w", err)
	}

	if p.Kind == model.KindLost {
		return c.CreateLost(ctx, p.UserID, p.ItemName, p.Description, p.Location, p.Date, imageURL)
	}
	return c.CreateFound(ctx, p.UserID, p.ItemName, p.Description, p.Location, p.Date, imageURL)
}

// UserItems holds both of a user's item lists, fetched together.
type UserItems struct {
	LostItems  []model.LostItem
	FoundItems []model.FoundItem
}

// FetchUserItems retrieves the user's lost and found reports concurrently.
// Either failure fails the combined call; no partial result is delivered.
func (c *Client) FetchUserItems(ctx context.Context, userID string) (*UserItems, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	var result UserItems
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := c.ListLost(gctx, userID)
		if err != nil {
			return err
		}
		result.LostItems = items
		return nil
	})
	g.Go(func() error {
		items, err := c.ListFound(gctx, userID)
		if err != nil {
			return err
		}
		result.FoundItems = items
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &result, nil
}
