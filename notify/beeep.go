package notify

import (
	"context"

	"github.com/gen2brain/beeep"
)

// BeeepBackend shows notifications through beeep, which works on every
// platform but cannot close or track what it shows.
type BeeepBackend struct{}

func NewBeeepBackend() *BeeepBackend {
	return &BeeepBackend{}
}

func (b *BeeepBackend) Supported() bool {
	return true
}

func (b *BeeepBackend) Permission() Permission {
	return PermissionGranted
}

func (b *BeeepBackend) RequestPermission(context.Context) (Permission, error) {
	return PermissionGranted, nil
}

func (b *BeeepBackend) Show(
	_ context.Context,
	n Notification,
	_ func(),
) (Handle, error) {
	if err := beeep.Notify(n.Title, n.Body, n.Icon); err != nil {
		return nil, err
	}

	return noopHandle{}, nil
}

type noopHandle struct{}

func (noopHandle) Close() error {
	return nil
}
