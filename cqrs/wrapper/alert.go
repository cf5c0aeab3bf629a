package wrapper

import (
	"context"
	"time"

	"github.com/code19m/errx"

	"github.com/rise-and-shine/paycheckout/alert"
	"github.com/rise-and-shine/paycheckout/cqrs"
	"github.com/rise-and-shine/paycheckout/logger"
	"github.com/rise-and-shine/paycheckout/meta"
)

const alertTimeout = 3 * time.Second

// NewAlertWrapper reports internal failures to provider without delaying the
// caller. Validation, not found and other expected failures are not reported.
// The handler's result and error are returned unchanged.
func NewAlertWrapper(log logger.Logger, provider alert.Provider) cqrs.WrapFunc {
	log = log.Named("cqrs.alerting")

	return func(next cqrs.Handler) cqrs.Handler {
		return cqrs.HandlerFunc(func(ctx context.Context, req cqrs.Request) (any, error) {
			result, err := next.Handle(ctx, req)
			if err == nil || errx.GetType(err) != errx.T_Internal {
				return result, err
			}

			details := make(map[string]string)
			for k, v := range meta.ExtractMetaFromContext(ctx) {
				details[string(k)] = v
			}

			a := alert.Alert{
				Code:      errx.AsErrorX(err).Code(),
				Message:   err.Error(),
				Operation: req.RequestName(),
				Details:   details,
			}

			alertCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), alertTimeout)
			go func() {
				defer cancel()

				if sendErr := provider.SendError(alertCtx, a); sendErr != nil {
					log.WithContext(ctx).With("alert_send_error", sendErr.Error()).Warn("failed to send error alert")
				}
			}()

			return result, err
		})
	}
}
