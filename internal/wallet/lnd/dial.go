package lnd

import (
	"context"
	"crypto/tls"
	"encoding/hex"
	"fmt"

	"github.com/lightningnetwork/lnd/lnrpc"
	"github.com/sandevgo/lnshell/internal/config"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
)

// macaroonCredential attaches a hex encoded macaroon to every RPC, the way
// lnd expects it in the "macaroon" metadata key.
type macaroonCredential string

func (m macaroonCredential) GetRequestMetadata(context.Context, ...string) (map[string]string, error) {
	return map[string]string{"macaroon": string(m)}, nil
}

func (m macaroonCredential) RequireTransportSecurity() bool {
	return true
}

// Dial opens a client connection to the node's gRPC interface. An empty
// macaroon gives a connection that can only reach the unauthenticated
// services (state and wallet unlocker).
func Dial(cfg *config.LndConfig, macaroonHex string) (*grpc.ClientConn, error) {
	creds, err := transportCredentials(cfg.TLSCertPath)
	if err != nil {
		return nil, err
	}

	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		grpc.WithDefaultCallOptions(grpc.MaxCallRecvMsgSize(lnrpc.MaxGrpcMsgSize)),
	}

	if macaroonHex != "" {
		if _, err := hex.DecodeString(macaroonHex); err != nil {
			return nil, fmt.Errorf("api_key is not a hex encoded macaroon: %w", err)
		}
		opts = append(opts, grpc.WithPerRPCCredentials(macaroonCredential(macaroonHex)))
	}

	conn, err := grpc.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to dial lnd at %s: %w", cfg.Host, err)
	}
	return conn, nil
}

func transportCredentials(certPath string) (credentials.TransportCredentials, error) {
	if certPath == "" {
		// Node behind a certificate from a public CA.
		return credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12}), nil
	}
	creds, err := credentials.NewClientTLSFromFile(certPath, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load lnd TLS certificate %s: %w", certPath, err)
	}
	return creds, nil
}
