package server

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/nainya/triedict/internal/logger"
	"github.com/nainya/triedict/pkg/trie"
)

// Server implements NodeReaderServer over a trie.NodeReader
type Server struct {
	reader *trie.NodeReader
	log    *logger.Logger
}

var _ NodeReaderServer = (*Server)(nil)

// NewServer creates a gRPC service instance
func NewServer(reader *trie.NodeReader, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{reader: reader, log: log}
}

// Register adds the NodeReader and health services to s
func Register(s *grpc.Server, srv *Server) *health.Server {
	RegisterNodeReaderServer(s, srv)

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)
	return hs
}

func (s *Server) ResolveNode(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	pos := int(req.GetValue())
	node := s.reader.ResolveNode(pos)
	if !node.IsValid() {
		s.log.Debug("node not readable").Int("position", pos).Send()
		return nil, status.Errorf(codes.NotFound, "no readable node at position %d", pos)
	}

	out, err := structpb.NewStruct(nodeFields(node))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode node: %v", err)
	}
	return out, nil
}

func (s *Server) ReadNodeArray(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	pos := int(req.GetValue())
	arr, err := s.reader.ReadPtNodeArray(pos)
	if err != nil {
		if errors.Is(err, trie.ErrInvalidArray) {
			return nil, status.Errorf(codes.DataLoss, "failed to read node array: %v", err)
		}
		return nil, status.Errorf(codes.Internal, "failed to read node array: %v", err)
	}

	nodes := make([]interface{}, len(arr.Nodes))
	for i, n := range arr.Nodes {
		nodes[i] = nodeFields(n)
	}
	fields := map[string]interface{}{
		"pos":   arr.Pos,
		"nodes": nodes,
	}
	if arr.HasForwardLink() {
		fields["forward_link"] = arr.ForwardLink
	}

	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode node array: %v", err)
	}
	return out, nil
}

// nodeFields omits sentinel positions so clients see absent fields
func nodeFields(n trie.NodeParams) map[string]interface{} {
	codePoints := make([]interface{}, len(n.CodePoints))
	for i, cp := range n.CodePoints {
		codePoints[i] = cp
	}

	fields := map[string]interface{}{
		"head_pos":               n.HeadPos,
		"flags":                  int(n.Flags),
		"word":                   n.Word(),
		"code_points":            codePoints,
		"terminal":               n.IsTerminal(),
		"deleted":                n.IsDeleted(),
		"not_a_word":             n.IsNotAWord(),
		"blacklisted":            n.IsBlacklisted(),
		"children_pos_field_pos": n.ChildrenPosFieldPos,
		"sibling_pos":            n.SiblingPos,
	}
	if n.ParentPos >= 0 {
		fields["parent_pos"] = n.ParentPos
	}
	if n.IsTerminal() {
		fields["terminal_id_field_pos"] = n.TerminalIDFieldPos
		fields["terminal_id"] = n.TerminalID
		fields["probability"] = n.Probability
	}
	if n.HasChildren() {
		fields["children_pos"] = n.ChildrenPos
	}
	return fields
}
