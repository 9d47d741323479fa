package server

import (
	"context"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"

	"github.com/chimed/chimed/common"
)

// Custom JSON-RPC error codes for alert operations.
const (
	codeAlertNotFound  = jrpc2.Code(-32001)
	codeAlertNotActive = jrpc2.Code(-32002)
	codeInvalidParams  = jrpc2.Code(-32602)
)

// RPCConfig holds configuration for the JSON-RPC endpoint.
type RPCConfig struct {
	Secret    string // Auth token (required -- empty means RPC disabled)
	ListenAll bool   // If true, bind to 0.0.0.0 instead of 127.0.0.1
	Version   string // Daemon version
	Commit    string // Git commit
	BuildType string // Build type
}

// RPCServer manages the JSON-RPC 2.0 bridge and method handlers.
type RPCServer struct {
	bridge    jhttp.Bridge
	methods   handler.Map
	secret    string
	version   string
	commit    string
	buildType string
	engine    AlertEngine
}

// VersionResult is the response for system.getVersion.
type VersionResult struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildType string `json:"buildType,omitempty"`
}

// EmptyResult is a placeholder for methods that return no data.
type EmptyResult struct{}

// NewRPCServer creates a new RPCServer with method handlers and HTTP bridge.
func NewRPCServer(cfg *RPCConfig, engine AlertEngine) *RPCServer {
	rs := &RPCServer{
		secret:    cfg.Secret,
		version:   cfg.Version,
		commit:    cfg.Commit,
		buildType: cfg.BuildType,
		engine:    engine,
	}

	rs.methods = handler.Map{
		"system.getVersion": handler.New(rs.systemGetVersion),
		"alert.schedule":    handler.New(rs.alertSchedule),
		"alert.snooze":      handler.New(rs.alertSnooze),
		"alert.delete":      handler.New(rs.alertDelete),
		"alert.list":        handler.New(rs.alertList),
		"alert.stop":        handler.New(rs.alertStop),
		"alert.clear":       handler.New(rs.alertClear),
	}

	rs.bridge = jhttp.NewBridge(rs.methods, nil)
	return rs
}

func (rs *RPCServer) systemGetVersion(_ context.Context) (*VersionResult, error) {
	return &VersionResult{
		Version:   rs.version,
		Commit:    rs.commit,
		BuildType: rs.buildType,
	}, nil
}

// alertSchedule creates or updates an alert.
func (rs *RPCServer) alertSchedule(_ context.Context, p *common.ScheduleParams) (*common.ScheduleResponse, error) {
	if p.ScheduledTime == "" && p.Recurrence == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: scheduled_time"}
	}
	res, err := rs.engine.Schedule(p)
	if err != nil {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: err.Error()}
	}
	return res, nil
}

// alertSnooze reschedules the ringing alert.
func (rs *RPCServer) alertSnooze(_ context.Context, p *common.SnoozeParams) (*common.SnoozeResponse, error) {
	if p.Token == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: token"}
	}
	res, err := rs.engine.Snooze(p)
	if err != nil {
		return nil, &jrpc2.Error{Code: codeAlertNotActive, Message: err.Error()}
	}
	return res, nil
}

// alertDelete removes alerts by token.
func (rs *RPCServer) alertDelete(_ context.Context, p *common.DeleteParams) (*common.DeleteResponse, error) {
	if len(p.Tokens) == 0 {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: tokens"}
	}
	res, err := rs.engine.Delete(p)
	if err != nil {
		return nil, &jrpc2.Error{Code: codeAlertNotFound, Message: err.Error()}
	}
	return res, nil
}

// alertList returns a snapshot of all alerts.
func (rs *RPCServer) alertList(_ context.Context, p *common.ListParams) (*common.ListResponse, error) {
	return rs.engine.List(p)
}

// alertStop stops the ringing alert.
func (rs *RPCServer) alertStop(_ context.Context) (*common.StopResponse, error) {
	return rs.engine.StopActive()
}

// alertClear wipes every alert.
func (rs *RPCServer) alertClear(_ context.Context) (*common.ClearResponse, error) {
	return rs.engine.Clear()
}

// Close shuts down the jrpc2 bridge, releasing internal goroutines.
func (rs *RPCServer) Close() {
	rs.bridge.Close()
}
