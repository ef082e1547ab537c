// Package lambdahttp corre un http.Handler detrás de API Gateway HTTP API (payload v2).
package lambdahttp

import (
	"context"
	"encoding/base64"
	"log/slog"
	"maps"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"

	"github.com/jose-valero/discord-music-bot/internal/adapters/httpapi"
)

type HandlerFunc func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

// Handler: una sola función Lambda rutea por RawPath sobre el mismo mux del server local.
func Handler(h http.Handler, log *slog.Logger) HandlerFunc {
	proxy := httpadapter.NewV2(h)
	return func(ctx context.Context, ev events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		if ev.IsBase64Encoded {
			if _, err := base64.StdEncoding.DecodeString(ev.Body); err != nil {
				return errorResponse(http.StatusBadRequest, "Invalid request"), nil
			}
		}
		ev = withRequestID(ev)

		resp, err := proxy.ProxyWithContext(ctx, ev)
		if err != nil {
			log.Error("lambda proxy failed", "path", ev.RawPath, "request_id", ev.RequestContext.RequestID, "err", err)
			return errorResponse(http.StatusInternalServerError, "Internal server error"), nil
		}
		return resp, nil
	}
}

// withRequestID propaga el id de API Gateway al middleware de request id.
// Copia el mapa para no tocar el evento del runtime.
func withRequestID(ev events.APIGatewayV2HTTPRequest) events.APIGatewayV2HTTPRequest {
	id := ev.RequestContext.RequestID
	if id == "" {
		return ev
	}
	headers := make(map[string]string, len(ev.Headers)+1)
	maps.Copy(headers, ev.Headers)
	for k := range headers {
		if strings.EqualFold(k, httpapi.HeaderRequestID) {
			delete(headers, k)
		}
	}
	headers[strings.ToLower(httpapi.HeaderRequestID)] = id
	ev.Headers = headers
	return ev
}

func errorResponse(status int, msg string) events.APIGatewayV2HTTPResponse {
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       `{"error":"` + msg + `"}`,
	}
}
