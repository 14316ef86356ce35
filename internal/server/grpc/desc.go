package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "clinic.v1.ClinicService"

// Method names.
const (
	MethodPing             = "Ping"
	MethodLogin            = "Login"
	MethodAddPatient       = "AddPatient"
	MethodAddDoctor        = "AddDoctor"
	MethodGetPatient       = "GetPatient"
	MethodGetDoctor        = "GetDoctor"
	MethodListPatients     = "ListPatients"
	MethodListDoctors      = "ListDoctors"
	MethodSchedule         = "Schedule"
	MethodCancel           = "Cancel"
	MethodComplete         = "Complete"
	MethodReschedule       = "Reschedule"
	MethodGetAppointment   = "GetAppointment"
	MethodListAppointments = "ListAppointments"
	MethodAddUser          = "AddUser"
	MethodResetPassword    = "ResetPassword"
)

// FullMethod returns "/clinic.v1.ClinicService/<method>".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// ClinicServer is implemented by GRPCServer. Every message is a
// google.protobuf.Struct.
type ClinicServer interface {
	Ping(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddPatient(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddDoctor(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetPatient(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetDoctor(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListPatients(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListDoctors(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Schedule(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Cancel(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Complete(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Reschedule(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAppointment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListAppointments(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResetPassword(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(ClinicServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(method string, call unaryCall) grpc.MethodDesc {
	fullMethod := FullMethod(method)
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ClinicServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ClinicServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes ClinicService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ClinicServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodPing, ClinicServer.Ping),
		unary(MethodLogin, ClinicServer.Login),
		unary(MethodAddPatient, ClinicServer.AddPatient),
		unary(MethodAddDoctor, ClinicServer.AddDoctor),
		unary(MethodGetPatient, ClinicServer.GetPatient),
		unary(MethodGetDoctor, ClinicServer.GetDoctor),
		unary(MethodListPatients, ClinicServer.ListPatients),
		unary(MethodListDoctors, ClinicServer.ListDoctors),
		unary(MethodSchedule, ClinicServer.Schedule),
		unary(MethodCancel, ClinicServer.Cancel),
		unary(MethodComplete, ClinicServer.Complete),
		unary(MethodReschedule, ClinicServer.Reschedule),
		unary(MethodGetAppointment, ClinicServer.GetAppointment),
		unary(MethodListAppointments, ClinicServer.ListAppointments),
		unary(MethodAddUser, ClinicServer.AddUser),
		unary(MethodResetPassword, ClinicServer.ResetPassword),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "clinic/v1/clinic.proto",
}

// RegisterClinicServer registers srv with s.
func RegisterClinicServer(s grpc.ServiceRegistrar, srv ClinicServer) {
	s.RegisterService(&ServiceDesc, srv)
}
