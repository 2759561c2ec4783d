package draft

import (
	"fmt"
	"sync"

	"connectrpc.com/grpcreflect"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// AuctionServiceName is the fully-qualified name of the auction RPC service.
	AuctionServiceName = "dynasty.auction.v1.AuctionService"

	auctionProtoPath = "dynasty/auction/v1/auction.proto"
	auctionPackage   = "dynasty.auction.v1"
	structTypeName   = ".google.protobuf.Struct"
)

var (
	descriptorsOnce sync.Once
	descriptorFiles *protoregistry.Files
	descriptorErr   error
)

// Descriptors returns a registry holding the auction service descriptor.
// Requests are described as messages; responses are JSON documents and are
// described as google.protobuf.Struct.
func Descriptors() (*protoregistry.Files, error) {
	descriptorsOnce.Do(func() {
		descriptorFiles, descriptorErr = buildDescriptors()
	})
	return descriptorFiles, descriptorErr
}

func buildDescriptors() (*protoregistry.Files, error) {
	files := new(protoregistry.Files)
	if err := files.RegisterFile(structpb.File_google_protobuf_struct_proto); err != nil {
		return nil, fmt.Errorf("register struct.proto: %w", err)
	}

	fd, err := protodesc.NewFile(auctionFileProto(), files)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", auctionProtoPath, err)
	}
	if err := files.RegisterFile(fd); err != nil {
		return nil, fmt.Errorf("register %s: %w", auctionProtoPath, err)
	}
	return files, nil
}

func auctionFileProto() *descriptorpb.FileDescriptorProto {
	str := descriptorpb.FieldDescriptorProto_TYPE_STRING
	i32 := descriptorpb.FieldDescriptorProto_TYPE_INT32

	return &descriptorpb.FileDescriptorProto{
		Name:       proto.String(auctionProtoPath),
		Package:    proto.String(auctionPackage),
		Dependency: []string{"google/protobuf/struct.proto"},
		Syntax:     proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			message("RoomRequest", field("room_id", "roomId", 1, str)),
			message("JoinRequest", field("room_id", "roomId", 1, str), field("team_name", "teamName", 2, str)),
			message("NominateRequest",
				field("room_id", "roomId", 1, str),
				field("player_id", "playerId", 2, str),
				field("starting_price", "startingPrice", 3, i32),
			),
			message("PlaceBidRequest", field("room_id", "roomId", 1, str), field("amount", "amount", 2, i32)),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("AuctionService"),
			Method: []*descriptorpb.MethodDescriptorProto{
				method("GetRoom", "RoomRequest"),
				method("Join", "JoinRequest"),
				method("StartDraft", "RoomRequest"),
				method("Nominate", "NominateRequest"),
				method("PlaceBid", "PlaceBidRequest"),
				method("TogglePause", "RoomRequest"),
			},
		}},
	}
}

func message(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{Name: proto.String(name), Field: fields}
}

func field(name, jsonName string, number int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		JsonName: proto.String(jsonName),
		Number:   proto.Int32(number),
		Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:     typ.Enum(),
	}
}

func method(name, input string) *descriptorpb.MethodDescriptorProto {
	return &descriptorpb.MethodDescriptorProto{
		Name:       proto.String(name),
		InputType:  proto.String("." + auctionPackage + "." + input),
		OutputType: proto.String(structTypeName),
	}
}

// procedure returns the Connect procedure path of an AuctionService method.
func procedure(method string) string {
	return "/" + AuctionServiceName + "/" + method
}

// serviceDescriptor looks up the registered service descriptor.
func serviceDescriptor() (protoreflect.ServiceDescriptor, error) {
	files, err := Descriptors()
	if err != nil {
		return nil, err
	}
	d, err := files.FindDescriptorByName(AuctionServiceName)
	if err != nil {
		return nil, err
	}
	sd, ok := d.(protoreflect.ServiceDescriptor)
	if !ok {
		return nil, fmt.Errorf("%s is not a service", AuctionServiceName)
	}
	return sd, nil
}

func protoName(s string) protoreflect.Name { return protoreflect.Name(s) }

// NewReflector serves gRPC reflection for the auction service descriptor.
func NewReflector() (*grpcreflect.Reflector, error) {
	files, err := Descriptors()
	if err != nil {
		return nil, err
	}
	names := grpcreflect.NamerFunc(func() []string { return []string{AuctionServiceName} })
	return grpcreflect.NewReflector(names, grpcreflect.WithDescriptorResolver(files)), nil
}
