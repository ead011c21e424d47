// README: Firebase Realtime Database sink; pushes entries under chat_logs.
package chatlog

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/db"
)

type FirebaseSink struct {
	client *db.Client
	path   string
}

func NewFirebaseSink(client *db.Client) *FirebaseSink {
	return &FirebaseSink{client: client, path: Path}
}

func (s *FirebaseSink) Name() string { return "firebase" }

func (s *FirebaseSink) Append(ctx context.Context, e Entry) error {
	if _, err := s.client.NewRef(s.path).Push(ctx, e); err != nil {
		return fmt.Errorf("firebase push %s: %w", s.path, err)
	}
	return nil
}
