package ui

import (
	"context"

	"github.com/truckline/dispatchdesk/internal/config"
	"github.com/truckline/dispatchdesk/internal/status"
	"github.com/truckline/dispatchdesk/internal/ui/components"
	"github.com/truckline/dispatchdesk/internal/ui/models"
	"github.com/truckline/dispatchdesk/pkg/api"
)

// RunApp creates and starts the application using the component-based architecture.
func RunApp(ctx context.Context, client *api.Client, cfg *config.Config, reg *status.Registry) error {
	models.SetUILogger(client.Logger())

	app, err := components.NewApp(ctx, client, cfg, reg)
	if err != nil {
		return err
	}

	return app.Run()
}
