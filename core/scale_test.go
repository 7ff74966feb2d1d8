package core

import (
	"context"
	"testing"
	"time"

	"github.com/huangsam/bfskpi/internal/contract"
	"github.com/huangsam/bfskpi/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// TestScaleFactor tests the zero-handling rules of the factor division.
func TestScaleFactor(t *testing.T) {
	tests := []struct {
		name     string
		scaling  int
		peer     int
		expected float64
	}{
		{name: "scaling active, peer idle", scaling: 5, peer: 0, expected: 1.0},
		{name: "scaling idle, peer active", scaling: 0, peer: 3, expected: 0.0},
		{name: "both idle", scaling: 0, peer: 0, expected: 1.0},
		{name: "plain ratio", scaling: 10, peer: 4, expected: 2.5},
		{name: "peer larger than scaling", scaling: 2, peer: 8, expected: 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, scaleFactor(tt.scaling, tt.peer), 0.0001)
		})
	}
}

// TestComputeScaleFactors runs the full computation over a mock store.
func TestComputeScaleFactors(t *testing.T) {
	ctx := context.Background()
	store := &contract.MockEventStore{}

	anchorA := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	anchorB := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	repos := []schema.Repository{
		{Name: "acme/api", Anchor: anchorA},
		{Name: "acme/web", Anchor: anchorB},
	}

	// The scaling repo counts 10 of everything; the peer counts 5.
	store.On("CountRange", ctx, "acme/api", mock.AnythingOfType("schema.Metric"), anchorA, anchorA.Add(180*24*time.Hour)).Return(10, nil)
	store.On("CountRange", ctx, "acme/web", mock.AnythingOfType("schema.Metric"), anchorB, anchorB.Add(180*24*time.Hour)).Return(5, nil)

	factors, err := ComputeScaleFactors(ctx, store, repos, "acme/api", 180*24*time.Hour)

	assert.NoError(t, err)
	for _, m := range scaledMetrics {
		assert.InDelta(t, 1.0, factors.Factor("acme/api", m), 0.0001)
		assert.InDelta(t, 2.0, factors.Factor("acme/web", m), 0.0001)
	}
	store.AssertExpectations(t)
}

// TestComputeScaleFactorsSentinelScalingRepo verifies that everything stays
// at identity when the scaling repo has no activity.
func TestComputeScaleFactorsSentinelScalingRepo(t *testing.T) {
	ctx := context.Background()
	store := &contract.MockEventStore{}

	repos := []schema.Repository{
		{Name: "acme/api", Anchor: schema.SentinelAnchor},
		{Name: "acme/web", Anchor: time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)},
	}

	factors, err := ComputeScaleFactors(ctx, store, repos, "acme/api", 180*24*time.Hour)

	assert.NoError(t, err)
	for _, m := range scaledMetrics {
		assert.InDelta(t, 1.0, factors.Factor("acme/web", m), 0.0001)
	}
	// No queries should have been issued.
	store.AssertNotCalled(t, "CountRange")
}

// TestComputeScaleFactorsSkipsInactivePeers verifies that a peer with the
// sentinel anchor keeps identity factors and is never queried.
func TestComputeScaleFactorsSkipsInactivePeers(t *testing.T) {
	ctx := context.Background()
	store := &contract.MockEventStore{}

	anchorA := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	repos := []schema.Repository{
		{Name: "acme/api", Anchor: anchorA},
		{Name: "acme/ghost", Anchor: schema.SentinelAnchor},
	}

	store.On("CountRange", ctx, "acme/api", mock.AnythingOfType("schema.Metric"), mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(3, nil)

	factors, err := ComputeScaleFactors(ctx, store, repos, "acme/api", 90*24*time.Hour)

	assert.NoError(t, err)
	for _, m := range scaledMetrics {
		assert.InDelta(t, 1.0, factors.Factor("acme/ghost", m), 0.0001)
	}
	store.AssertNotCalled(t, "CountRange", ctx, "acme/ghost", mock.Anything, mock.Anything, mock.Anything)
}
