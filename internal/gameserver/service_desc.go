package gameserver

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "colonialweather.engine.v1.Engine"

// EngineServer is the server API for the Engine service.
type EngineServer interface {
	RollPool(context.Context, *RollPoolRequest) (*RollPoolResponse, error)
	Check(context.Context, *CheckRequest) (*CheckResponse, error)
	PreviewModifiers(context.Context, *PreviewModifiersRequest) (*PreviewModifiersResponse, error)
	Attack(context.Context, *AttackRequest) (*AttackResponse, error)
	Heal(context.Context, *HealRequest) (*HealResponse, error)
	ToggleBox(context.Context, *ToggleBoxRequest) (*ToggleBoxResponse, error)
	StartTurn(context.Context, *StartTurnRequest) (*StartTurnResponse, error)
	SpendXP(context.Context, *SpendXPRequest) (*SpendXPResponse, error)
	StartEncounter(context.Context, *StartEncounterRequest) (*StartEncounterResponse, error)
	RollInitiative(context.Context, *RollInitiativeRequest) (*RollInitiativeResponse, error)
	AdvanceTurn(context.Context, *AdvanceTurnRequest) (*AdvanceTurnResponse, error)
	GrantItem(context.Context, *GrantItemRequest) (*GrantItemResponse, error)
	EndEncounter(context.Context, *EndEncounterRequest) (*EndEncounterResponse, error)
	Reload(context.Context, *ReloadRequest) (*ReloadResponse, error)
}

// EngineServiceDesc describes the Engine service for grpc.Server.RegisterService.
var EngineServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EngineServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("RollPool", EngineServer.RollPool),
		unary("Check", EngineServer.Check),
		unary("PreviewModifiers", EngineServer.PreviewModifiers),
		unary("Attack", EngineServer.Attack),
		unary("Heal", EngineServer.Heal),
		unary("ToggleBox", EngineServer.ToggleBox),
		unary("StartTurn", EngineServer.StartTurn),
		unary("SpendXP", EngineServer.SpendXP),
		unary("StartEncounter", EngineServer.StartEncounter),
		unary("RollInitiative", EngineServer.RollInitiative),
		unary("AdvanceTurn", EngineServer.AdvanceTurn),
		unary("GrantItem", EngineServer.GrantItem),
		unary("EndEncounter", EngineServer.EndEncounter),
		unary("Reload", EngineServer.Reload),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "colonialweather/engine/v1/engine.proto",
}

// RegisterEngineServer registers srv on s.
//
// Precondition: s and srv must be non-nil.
func RegisterEngineServer(s grpc.ServiceRegistrar, srv EngineServer) {
	s.RegisterService(&EngineServiceDesc, srv)
}

// FullMethod returns the "/service/method" path of an Engine method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unary builds the method descriptor for one request/response RPC.
func unary[Req, Resp any](method string, call func(EngineServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(EngineServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(EngineServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// EngineClient calls the Engine service over the JSON codec.
type EngineClient struct {
	cc grpc.ClientConnInterface
}

// NewEngineClient wraps cc.
//
// Precondition: cc must be non-nil.
func NewEngineClient(cc grpc.ClientConnInterface) *EngineClient {
	return &EngineClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *EngineClient, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *EngineClient) RollPool(ctx context.Context, in *RollPoolRequest, opts ...grpc.CallOption) (*RollPoolResponse, error) {
	return invoke[RollPoolResponse](ctx, c, "RollPool", in, opts)
}

func (c *EngineClient) Check(ctx context.Context, in *CheckRequest, opts ...grpc.CallOption) (*CheckResponse, error) {
	return invoke[CheckResponse](ctx, c, "Check", in, opts)
}

func (c *EngineClient) PreviewModifiers(ctx context.Context, in *PreviewModifiersRequest, opts ...grpc.CallOption) (*PreviewModifiersResponse, error) {
	return invoke[PreviewModifiersResponse](ctx, c, "PreviewModifiers", in, opts)
}

func (c *EngineClient) Attack(ctx context.Context, in *AttackRequest, opts ...grpc.CallOption) (*AttackResponse, error) {
	return invoke[AttackResponse](ctx, c, "Attack", in, opts)
}

func (c *EngineClient) Heal(ctx context.Context, in *HealRequest, opts ...grpc.CallOption) (*HealResponse, error) {
	return invoke[HealResponse](ctx, c, "Heal", in, opts)
}

func (c *EngineClient) ToggleBox(ctx context.Context, in *ToggleBoxRequest, opts ...grpc.CallOption) (*ToggleBoxResponse, error) {
	return invoke[ToggleBoxResponse](ctx, c, "ToggleBox", in, opts)
}

func (c *EngineClient) StartTurn(ctx context.Context, in *StartTurnRequest, opts ...grpc.CallOption) (*StartTurnResponse, error) {
	return invoke[StartTurnResponse](ctx, c, "StartTurn", in, opts)
}

func (c *EngineClient) SpendXP(ctx context.Context, in *SpendXPRequest, opts ...grpc.CallOption) (*SpendXPResponse, error) {
	return invoke[SpendXPResponse](ctx, c, "SpendXP", in, opts)
}

func (c *EngineClient) StartEncounter(ctx context.Context, in *StartEncounterRequest, opts ...grpc.CallOption) (*StartEncounterResponse, error) {
	return invoke[StartEncounterResponse](ctx, c, "StartEncounter", in, opts)
}

func (c *EngineClient) RollInitiative(ctx context.Context, in *RollInitiativeRequest, opts ...grpc.CallOption) (*RollInitiativeResponse, error) {
	return invoke[RollInitiativeResponse](ctx, c, "RollInitiative", in, opts)
}

func (c *EngineClient) AdvanceTurn(ctx context.Context, in *AdvanceTurnRequest, opts ...grpc.CallOption) (*AdvanceTurnResponse, error) {
	return invoke[AdvanceTurnResponse](ctx, c, "AdvanceTurn", in, opts)
}

func (c *EngineClient) GrantItem(ctx context.Context, in *GrantItemRequest, opts ...grpc.CallOption) (*GrantItemResponse, error) {
	return invoke[GrantItemResponse](ctx, c, "GrantItem", in, opts)
}

func (c *EngineClient) EndEncounter(ctx context.Context, in *EndEncounterRequest, opts ...grpc.CallOption) (*EndEncounterResponse, error) {
	return invoke[EndEncounterResponse](ctx, c, "EndEncounter", in, opts)
}

func (c *EngineClient) Reload(ctx context.Context, in *ReloadRequest, opts ...grpc.CallOption) (*ReloadResponse, error) {
	return invoke[ReloadResponse](ctx, c, "Reload", in, opts)
}
