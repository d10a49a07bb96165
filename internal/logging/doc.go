// Package logging provides structured logging for jeedom-status.
//
// # Overview
//
// Logging package wraps Zap with:
//   - Custom Trace level (-2, below Debug) for raw JSON-RPC payload dumps
//   - Output on stderr, since stdout carries the rendered bar
//   - Automatic context field injection (trace_id, request id, rpc method)
//   - Secret redaction for the controller API key
//
// # Usage
//
// Create logger from config:
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.NewLogger(cfg)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
// Log with context:
//
//	ctx = logging.WithRequestID(ctx, id)
//	ctx = logging.WithMethod(ctx, "summary::global")
//	logger.Debug(ctx, "jeedom request sent", zap.Duration("duration", d))
//
// Output includes automatic correlation:
//
//	{
//	  "ts": "2026-03-02T10:15:30Z",
//	  "level": "debug",
//	  "msg": "jeedom request sent",
//	  "request.id": "5f0c...",
//	  "rpc.method": "summary::global",
//	  "duration": "45ms"
//	}
//
// # Testing
//
// NewTestLogger records every entry in memory for assertions:
//
//	tl := logging.NewTestLogger()
//	client, err := connect(ctx, cfg, tl.Logger)
//	tl.AssertLogged(t, zapcore.DebugLevel, "jeedom request sent")
//	tl.AssertNoSecret(t, apiKey)
package logging
