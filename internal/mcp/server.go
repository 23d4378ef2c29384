// Package mcp exposes the loaded segmenter session as MCP tools so agents can
// request predictions over stdio.
package mcp

import (
	"context"
	"fmt"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kingrea/segmenter/internal/form"
	"github.com/kingrea/segmenter/internal/segment"
	"github.com/kingrea/segmenter/internal/session"
)

// Server wraps the MCP SDK server around one opened session.
type Server struct {
	MCPServer *sdkmcp.Server

	session *session.Session
	log     *slog.Logger
}

// NewServer registers the segmenter tools against s.
func NewServer(s *session.Session, version string) *Server {
	if version == "" {
		version = "dev"
	}
	srv := &Server{
		MCPServer: sdkmcp.NewServer(&sdkmcp.Implementation{Name: "segmenter", Version: version}, nil),
		session:   s,
		log:       s.Logger.Slog().With("component", "mcp"),
	}
	srv.registerTools()
	return srv
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "predict_segment",
		Description: "Predict the customer segment for seven customer attributes. Returns cluster id, label, and centroid distances.",
	}, s.handlePredictSegment)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_segments",
		Description: "List the cluster ids and segment labels known to this project.",
	}, s.handleListSegments)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "describe_artifacts",
		Description: "Describe the scaler and model artifacts: paths, encoding, state, and metadata.",
	}, s.handleDescribeArtifacts)
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("starting segmenter MCP server over stdio")
	return s.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}

// --- Tool input/output types ---

type predictSegmentInput struct {
	Age               float64 `json:"age" jsonschema:"customer age in years (18-100)"`
	Income            float64 `json:"income" jsonschema:"yearly household income (0-200000)"`
	TotalSpending     float64 `json:"total_spending" jsonschema:"total amount spent (0-5000)"`
	NumWebPurchases   float64 `json:"num_web_purchases" jsonschema:"purchases made through the web site (0-100)"`
	NumStorePurchases float64 `json:"num_store_purchases" jsonschema:"purchases made in store (0-100)"`
	NumWebVisitsMonth float64 `json:"num_web_visits_month" jsonschema:"web site visits in the last month (0-50)"`
	Recency           float64 `json:"recency" jsonschema:"days since the last purchase (0-365)"`
	NoBounds          bool    `json:"no_bounds,omitempty" jsonschema:"skip the documented range checks"`
}

func (in predictSegmentInput) record() segment.FeatureRecord {
	return segment.FeatureRecord{
		Age:               in.Age,
		Income:            in.Income,
		TotalSpending:     in.TotalSpending,
		NumWebPurchases:   in.NumWebPurchases,
		NumStorePurchases: in.NumStorePurchases,
		NumWebVisitsMonth: in.NumWebVisitsMonth,
		Recency:           in.Recency,
	}
}

type predictSegmentOutput struct {
	RequestID string    `json:"request_id"`
	Cluster   int       `json:"cluster"`
	Label     string    `json:"label"`
	Known     bool      `json:"known"`
	Distances []float64 `json:"distances,omitempty"`
}

type listSegmentsInput struct{}

type listSegmentsOutput struct {
	Segments []segment.Segment `json:"segments"`
	Clusters int               `json:"clusters"`
	Unknown  string            `json:"unknown"`
}

type describeArtifactsInput struct{}

type describeArtifactsOutput struct {
	Artifacts []session.ArtifactStatus `json:"artifacts"`
}

// --- Tool handlers ---

func (s *Server) handlePredictSegment(_ context.Context, _ *sdkmcp.CallToolRequest, input predictSegmentInput) (*sdkmcp.CallToolResult, predictSegmentOutput, error) {
	var opts []form.Option
	if input.NoBounds {
		opts = append(opts, form.Unbounded())
	}
	record, err := form.Parse(form.Format(input.record()), opts...)
	if err != nil {
		return nil, predictSegmentOutput{}, fmt.Errorf("predict_segment: %w", err)
	}
	id, p, err := s.session.Predict(record)
	if err != nil {
		return nil, predictSegmentOutput{}, fmt.Errorf("predict_segment: %w", err)
	}
	return nil, predictSegmentOutput{
		RequestID: id,
		Cluster:   p.Cluster,
		Label:     p.Label,
		Known:     p.Known(),
		Distances: p.Distances,
	}, nil
}

func (s *Server) handleListSegments(_ context.Context, _ *sdkmcp.CallToolRequest, _ listSegmentsInput) (*sdkmcp.CallToolResult, listSegmentsOutput, error) {
	return nil, listSegmentsOutput{
		Segments: s.session.Predictor.Catalog().Segments(),
		Clusters: s.session.Predictor.NumClusters(),
		Unknown:  segment.UnknownSegment,
	}, nil
}

func (s *Server) handleDescribeArtifacts(_ context.Context, _ *sdkmcp.CallToolRequest, _ describeArtifactsInput) (*sdkmcp.CallToolResult, describeArtifactsOutput, error) {
	return nil, describeArtifactsOutput{Artifacts: s.session.Inspect()}, nil
}
