// Command shopctl talks to a running sunushop API: sign in, quote delivery
// fees, browse zones and countries, place orders and read vendor revenue.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sunushop-backend/pkg/client"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		os.Exit(1)
	}
}

func describe(err error) string {
	if errors.Is(err, client.ErrUnauthorized) {
		return "Session expirée ou absente. Connectez-vous avec : shopctl login"
	}
	if apiErr, ok := client.AsAPIError(err); ok {
		msg := fmt.Sprintf("[%s] %s", apiErr.Slot(), apiErr.DisplayMessage())
		for field, reason := range apiErr.Fields {
			msg += fmt.Sprintf("\n  %s: %s", field, reason)
		}
		return msg
	}
	return err.Error()
}
