package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
)

// NotificationsCmd groups the push-notification subcommands.
type NotificationsCmd struct {
	Register   NotificationsRegisterCmd   `cmd:"" help:"Register a device push token"`
	Unregister NotificationsUnregisterCmd `cmd:"" help:"Remove a device push token"`
	List       NotificationsListCmd       `cmd:"" help:"List notifications"`
	Read       NotificationsReadCmd       `cmd:"" help:"Mark a notification as read"`
	SendTest   NotificationsSendTestCmd   `cmd:"" name:"send-test" help:"Send a test notification"`
}

type NotificationsRegisterCmd struct {
	Token    string `help:"Device push token. Generated when omitted."`
	Platform string `help:"Device platform." enum:"expo,ios,android" default:"expo"`
}

func (r *NotificationsRegisterCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	token := r.Token
	if token == "" {
		token = uuid.New().String()
	}

	if err := app.api.RegisterPushToken(ctx, token, r.Platform); err != nil {
		return err
	}

	fmt.Printf("Registered push token %s (%s)\n", token, r.Platform)
	return nil
}

type NotificationsUnregisterCmd struct {
	Token string `arg:"" help:"Device push token."`
}

func (u *NotificationsUnregisterCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	if err := app.api.UnregisterPushToken(ctx, u.Token); err != nil {
		return err
	}

	fmt.Println("Push token removed.")
	return nil
}

type NotificationsListCmd struct {
	Limit int `help:"Maximum notifications to fetch." default:"50"`
}

func (l *NotificationsListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	notifications, err := app.api.ListNotifications(ctx, l.Limit)
	if err != nil {
		return err
	}

	if len(notifications) == 0 {
		fmt.Println("No notifications.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSENT\tREAD")
	for _, n := range notifications {
		read := ""
		if n.Read {
			read = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", n.ID, truncate(n.Title, 40), n.SentAt, read)
	}
	w.Flush()
	return nil
}

type NotificationsReadCmd struct {
	ID string `arg:"" help:"Notification id."`
}

func (r *NotificationsReadCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	if err := app.api.MarkNotificationRead(ctx, r.ID); err != nil {
		return err
	}

	fmt.Println("Marked as read.")
	return nil
}

type NotificationsSendTestCmd struct{}

func (s *NotificationsSendTestCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	result, err := app.api.SendTestNotification(ctx)
	if err != nil {
		return err
	}

	if msg, ok := result["message"].(string); ok {
		fmt.Println(msg)
	} else {
		fmt.Println("Test notification sent.")
	}
	return nil
}
