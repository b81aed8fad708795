package vanta

import (
	"context"
	"time"

	"github.com/fintrustai/compliance-copilot/internal/domain/compliance"
)

// LiveGate aggregates the three provider reads into one verdict. Any failed
// read fails the whole check; there is no partial verdict.
type LiveGate struct {
	Client *Client
}

func NewLiveGate(c *Client) *LiveGate {
	return &LiveGate{Client: c}
}

func (g *LiveGate) CheckPosture(ctx context.Context) (*compliance.Verdict, error) {
	controls, err := g.Client.GetControls(ctx)
	if err != nil {
		return nil, err
	}
	findings, err := g.Client.GetRiskFindings(ctx)
	if err != nil {
		return nil, err
	}
	orgStatus, err := g.Client.GetOrganizationStatus(ctx)
	if err != nil {
		return nil, err
	}

	score := compliance.Score(controls, findings)
	return &compliance.Verdict{
		ComplianceScore:    score,
		Status:             compliance.StatusFor(score),
		Controls:           controls,
		RiskFindings:       findings,
		OrganizationStatus: orgStatus,
		Timestamp:          time.Now().UTC().Format(time.RFC3339),
	}, nil
}

var _ compliance.Gate = (*LiveGate)(nil)
