package observability

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_http_requests_total",
			Help: "Total number of HTTP requests processed by the chat core.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	grpcServerHandledTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grpc_server_handled_total",
			Help: "Total number of gRPC requests handled by the server.",
		},
		[]string{"grpc_service", "grpc_method", "grpc_code"},
	)
	messageWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_message_writes_total",
			Help: "Total number of message writes by scope and operation.",
		},
		[]string{"scope", "op"},
	)
	reactionTogglesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_reaction_toggles_total",
			Help: "Total number of reaction toggles by outcome.",
		},
		[]string{"outcome"},
	)
	conversationsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_conversations_created_total",
			Help: "Total number of conversations created on first contact.",
		},
		[]string{"kind"},
	)
	conversationConflictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_conversation_conflicts_total",
			Help: "Concurrent first-contact inserts resolved by re-reading the winner.",
		},
		[]string{"kind"},
	)
	assemblyDroppedRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_assembly_dropped_rows_total",
			Help: "Messages left out of an assembled page.",
		},
		[]string{"reason"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		grpcServerHandledTotal,
		messageWritesTotal,
		reactionTogglesTotal,
		conversationsCreatedTotal,
		conversationConflictsTotal,
		assemblyDroppedRowsTotal,
		amqpPublishErrorsTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func GRPCServerMetricsUnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		resp, err := handler(ctx, req)
		statusInfo := status.Convert(err)
		service, method := splitFullMethod(info.FullMethod)
		grpcServerHandledTotal.WithLabelValues(service, method, statusInfo.Code().String()).Inc()
		return resp, err
	}
}

func splitFullMethod(fullMethod string) (string, string) {
	parts := strings.Split(fullMethod, "/")
	if len(parts) < 3 {
		return "unknown", "unknown"
	}
	return parts[1], parts[2]
}

func IncMessageWrite(scope, op string) {
	messageWritesTotal.WithLabelValues(scope, op).Inc()
}

func IncReactionToggle(outcome string) {
	reactionTogglesTotal.WithLabelValues(outcome).Inc()
}

func IncConversationCreated(kind string) {
	conversationsCreatedTotal.WithLabelValues(kind).Inc()
}

func IncConversationConflict(kind string) {
	conversationConflictsTotal.WithLabelValues(kind).Inc()
}

func IncAssemblyDropped(reason string) {
	assemblyDroppedRowsTotal.WithLabelValues(reason).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}
