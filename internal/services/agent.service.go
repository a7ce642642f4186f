package services

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sony/gobreaker"
)

// AgentLogEntry is a structured log line shipped to the agent
type AgentLogEntry struct {
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      string      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// AgentClient talks JSON-RPC 2.0 to a local automation agent over a Unix
// domain socket, one newline-delimited request/response pair per call.
// Calls run through a circuit breaker so a dead agent degrades to fast,
// logged failures instead of a dial timeout on every tick.
type AgentClient struct {
	socketPath string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	breaker    *gobreaker.CircuitBreaker
}

// NewAgentClient creates a client for the agent socket at socketPath
func NewAgentClient(socketPath string, timeout time.Duration, maxRetries int, retryDelay time.Duration) *AgentClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "agent-socket",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("[AGENT] Circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &AgentClient{
		socketPath: socketPath,
		timeout:    timeout,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		breaker:    breaker,
	}
}

// Connect verifies the agent is reachable, retrying a few times. A plugin
// started before its agent should not give up on the first refused dial.
func (c *AgentClient) Connect(ctx context.Context) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.Ping(ctx); err == nil {
			log.Printf("[AGENT] Connected to agent at %s", c.socketPath)
			return nil
		} else {
			lastErr = err
		}

		if attempt < c.maxRetries {
			log.Printf("[AGENT] Connection attempt %d failed: %v", attempt+1, lastErr)
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("failed to connect to agent after %d attempts: %w", c.maxRetries+1, lastErr)
}

// Ping checks agent liveness
func (c *AgentClient) Ping(ctx context.Context) error {
	_, err := c.call(ctx, "ping", nil)
	return err
}

// ReportTrigger notifies the agent that a threshold condition fired
func (c *AgentClient) ReportTrigger(ctx context.Context, triggerType string, data map[string]interface{}) error {
	_, err := c.call(ctx, "report_trigger", map[string]interface{}{
		"trigger_type": triggerType,
		"data":         data,
	})
	return err
}

// UploadLogs ships structured log entries to the agent
func (c *AgentClient) UploadLogs(ctx context.Context, entries []AgentLogEntry) error {
	_, err := c.call(ctx, "upload_logs", map[string]interface{}{
		"logs": entries,
	})
	return err
}

// Log uploads a single log entry stamped with the current time
func (c *AgentClient) Log(ctx context.Context, level, message string) error {
	return c.UploadLogs(ctx, []AgentLogEntry{{
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
	}})
}

func (c *AgentClient) call(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doCall(ctx, method, params)
	})
	if err != nil {
		return nil, err
	}
	return result.(json.RawMessage), nil
}

func (c *AgentClient) doCall(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	dialer := net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("dialing agent socket: %w", err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, err
	}

	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      ulid.Make().String(),
		Method:  method,
		Params:  params,
	}
	if err := json.NewEncoder(conn).Encode(&req); err != nil {
		return nil, fmt.Errorf("writing request: %w", err)
	}

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var resp rpcResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.Result, nil
}
