package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// RegisterPushToken registers a device push token with the backend.
func (a *API) RegisterPushToken(ctx context.Context, token, platform string) error {
	body := map[string]string{"token": token, "platform": platform}
	if err := a.client.Post(ctx, "/notifications/register-token", body, nil); err != nil {
		return fmt.Errorf("failed to register push token: %w", err)
	}
	return nil
}

// UnregisterPushToken removes a previously registered push token.
func (a *API) UnregisterPushToken(ctx context.Context, token string) error {
	query := url.Values{}
	query.Set("token", token)
	if err := a.client.Delete(ctx, "/notifications/unregister-token", query, nil); err != nil {
		return fmt.Errorf("failed to unregister push token: %w", err)
	}
	return nil
}

// ListNotifications returns up to limit notifications, newest first.
func (a *API) ListNotifications(ctx context.Context, limit int) ([]Notification, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	var out []Notification
	if err := a.client.Get(ctx, "/notifications/", query, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	return out, nil
}

// MarkNotificationRead marks one notification as read.
func (a *API) MarkNotificationRead(ctx context.Context, id string) error {
	if err := a.client.Put(ctx, "/notifications/"+url.PathEscape(id)+"/read", nil, nil); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// SendTestNotification asks the backend to push a test notification to the
// registered devices.
func (a *API) SendTestNotification(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := a.client.Post(ctx, "/notifications/send-test", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to send test notification: %w", err)
	}
	return out, nil
}
