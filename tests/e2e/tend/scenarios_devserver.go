package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mattsolo1/grove-tend/pkg/harness"
	"github.com/mattsolo1/grove-tend/pkg/verify"
)

// DevServerScenario runs 'protalker devserver' and calls both endpoints.
var DevServerScenario = harness.NewScenario(
	"devserver-endpoints",
	"Starts the dev server without an OpenAI key and exercises the chat and demo endpoints.",
	[]string{"devserver", "http"},
	[]harness.Step{
		harness.NewStep("Start devserver", startDevServer),

		harness.NewStep("Chat endpoint echoes the message", func(ctx *harness.Context) error {
			baseURL := ctx.GetString("devserver_url")
			body, status, err := httpCall(http.MethodPost, baseURL+"/api/openai-chat", `{"message":"Quiero practicar una entrevista"}`)
			if err != nil {
				return fmt.Errorf("chat request failed: %w", err)
			}
			ctx.ShowCommandOutput("POST /api/openai-chat", body, "")

			var reply struct {
				Response string `json:"response"`
			}
			if err := json.Unmarshal([]byte(body), &reply); err != nil {
				return fmt.Errorf("chat response is not JSON: %w\n%s", err, body)
			}
			return ctx.Verify(func(v *verify.Collector) {
				v.Equal("status", http.StatusOK, status)
				v.Contains("echoed text", reply.Response, "Quiero practicar una entrevista")
			})
		}),

		harness.NewStep("Chat endpoint rejects an empty message", func(ctx *harness.Context) error {
			baseURL := ctx.GetString("devserver_url")
			body, status, err := httpCall(http.MethodPost, baseURL+"/api/openai-chat", `{"message":"   "}`)
			if err != nil {
				return fmt.Errorf("chat request failed: %w", err)
			}
			ctx.ShowCommandOutput("POST /api/openai-chat (empty)", body, "")
			return ctx.Verify(func(v *verify.Collector) {
				v.Equal("status", http.StatusBadRequest, status)
			})
		}),

		harness.NewStep("Demo endpoint reports started", func(ctx *harness.Context) error {
			baseURL := ctx.GetString("devserver_url")
			body, status, err := httpCall(http.MethodPost, baseURL+"/api/run-prueba", "")
			if err != nil {
				return fmt.Errorf("demo request failed: %w", err)
			}
			ctx.ShowCommandOutput("POST /api/run-prueba", body, "")

			var started struct {
				Status string `json:"status"`
			}
			if err := json.Unmarshal([]byte(body), &started); err != nil {
				return fmt.Errorf("demo response is not JSON: %w\n%s", err, body)
			}
			return ctx.Verify(func(v *verify.Collector) {
				v.Equal("status code", http.StatusOK, status)
				v.Equal("status field", "started", started.Status)
			})
		}),

		harness.NewStep("Stop devserver", stopDevServer),
	},
)
