package bootstrap

import (
	"log/slog"

	"lab-booking/internal/domain/window"
	"lab-booking/internal/pkg/config"

	"go.uber.org/fx"
)

var WindowModule = fx.Module("window",
	fx.Provide(
		NewWindowPolicy,
	),
)

func NewWindowPolicy(cfg config.Config, logger *slog.Logger) (window.Policy, error) {
	loc, err := window.LoadLocation(cfg.Window.TimeZone, cfg.Window.TimeZoneFallback)
	if err != nil {
		return nil, err
	}

	policy, err := window.New(window.Kind(cfg.Window.Policy), loc, cfg.Window.Retention)
	if err != nil {
		return nil, err
	}

	logger.Info("予約ウィンドウを設定しました",
		"policy", policy.Kind().String(),
		"timezone", loc.String(),
	)
	return policy, nil
}
