package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"Topup-Lunite/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lunite_login_attempts_total",
		Help: "Login attempts by result.",
	}, []string{"result"})

	Purchases = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lunite_purchases_total",
		Help: "Completed purchases by payment method and product type.",
	}, []string{"method", "type"})

	PurchaseFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lunite_purchase_failures_total",
		Help: "Rejected or failed purchases by reason.",
	}, []string{"reason"})

	VouchersIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lunite_vouchers_issued_total",
		Help: "Vouchers issued to purchasers.",
	})

	Revenue = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lunite_revenue_total",
		Help: "Sum of purchase totals in currency units.",
	})
)

// Serve exposes /health and /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	logger.Info("metrics server listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
