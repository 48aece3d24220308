package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel"

	"github.com/KirkDiggler/coc-keeper/internal/telemetry"
)

type TelemetryTestSuite struct {
	suite.Suite
}

func TestTelemetryTestSuite(t *testing.T) {
	suite.Run(t, new(TelemetryTestSuite))
}

func (s *TelemetryTestSuite) TestNoopWithoutEndpoint() {
	before := otel.GetTracerProvider()

	shutdown, err := telemetry.Setup(context.Background(), telemetry.Config{ServiceName: "coc-keeper"})
	s.Require().NoError(err)
	s.NoError(shutdown(context.Background()))
	s.Equal(before, otel.GetTracerProvider())
}

func (s *TelemetryTestSuite) TestProviderWithEndpoint() {
	before := otel.GetTracerProvider()
	defer otel.SetTracerProvider(before)

	// non-routable, nothing is exported before shutdown
	shutdown, err := telemetry.Setup(context.Background(), telemetry.Config{
		Endpoint:    "http://192.0.2.1:4318",
		ServiceName: "coc-keeper",
		Version:     "test",
	})
	s.Require().NoError(err)
	s.NotEqual(before, otel.GetTracerProvider())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
