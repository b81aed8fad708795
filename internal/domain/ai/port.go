package ai

import (
	"context"

	"github.com/fintrustai/compliance-copilot/internal/domain/analysis"
)

// Client is the model-backend port. Each method renders one prompt, performs
// a single synchronous completion call and returns the raw model text.
// Retry policy, if any, belongs to the caller.
type Client interface {
	AnalyzeKYC(ctx context.Context, profile analysis.KYCProfile) (string, error)
	AnalyzeTransaction(ctx context.Context, txn analysis.Transaction) (string, error)
	GenerateSAR(ctx context.Context, bundle analysis.SARBundle) (string, error)
}
