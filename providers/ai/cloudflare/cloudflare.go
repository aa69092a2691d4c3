package cloudflare

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/ninetofive/scout/internal/utils"
	"github.com/ninetofive/scout/providers/ai"
	"github.com/ninetofive/scout/providers/observability"
)

const (
	defaultDirectBaseURL = "https://api.cloudflare.com/client/v4/accounts"

	structuredEndpoint = "/v1/chat/completions/structured"
	textEndpoint       = "/v1/chat/completions/text"
	openAIEndpoint     = "/ai/v1/chat/completions"
	runEndpoint        = "/ai/run/"
)

// Environment variables read by NewProvider.
const (
	EnvWorkerEndpoint = "WORKER_ENDPOINT_URI"
	EnvWorkerAPIKey   = "WORKER_API_KEY"
	EnvAccountID      = "CLOUDFLARE_ACCOUNT_ID"
	EnvAPIToken       = "CLOUDFLARE_API_TOKEN"
)

// Endpoint flavours reported on spans.
const (
	endpointWorker       = "worker"
	endpointOpenAICompat = "openai_compat"
	endpointRun          = "run"
)

var (
	// ErrMissingCredentials is returned before any request when the
	// credentials for the selected mode are not configured.
	ErrMissingCredentials = errors.New("cloudflare: missing credentials")

	// ErrUnexpectedResponse is returned when a 2xx answer has no usable
	// content.
	ErrUnexpectedResponse = errors.New("cloudflare: unexpected response structure")
)

// Provider implements ai.Provider for Workers AI.
type Provider struct {
	mode      Mode
	apiKey    string
	baseURL   string
	accountID string
	client    *http.Client
}

// NewProvider creates a provider for mode with credentials from the
// environment.
func NewProvider(mode Mode) *Provider {
	p := &Provider{
		mode:   mode,
		client: &http.Client{Timeout: utils.RequestTimeout},
	}

	switch mode {
	case ModeDirect:
		p.apiKey = os.Getenv(EnvAPIToken)
		p.accountID = os.Getenv(EnvAccountID)
		p.baseURL = defaultDirectBaseURL
	default:
		p.mode = ModeWorker
		p.apiKey = os.Getenv(EnvWorkerAPIKey)
		p.baseURL = os.Getenv(EnvWorkerEndpoint)
	}
	p.baseURL = strings.TrimRight(p.baseURL, "/")
	return p
}

// Mode returns the mode the provider was created with.
func (p *Provider) Mode() Mode {
	return p.mode
}

// WithAPIKey sets the bearer token: the worker key or the Cloudflare API
// token, depending on the mode.
func (p *Provider) WithAPIKey(apiKey string) ai.Provider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL sets the worker URL, or the accounts URL in direct mode.
func (p *Provider) WithBaseURL(baseURL string) ai.Provider {
	p.baseURL = strings.TrimRight(baseURL, "/")
	return p
}

// WithHttpClient sets a custom HTTP client
func (p *Provider) WithHttpClient(httpClient *http.Client) ai.Provider {
	p.client = httpClient
	return p
}

// WithAccountID sets the Cloudflare account used in direct mode.
func (p *Provider) WithAccountID(accountID string) *Provider {
	p.accountID = accountID
	return p
}

// SendMessage implements the Provider interface
func (p *Provider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	if err := p.checkCredentials(); err != nil {
		return nil, err
	}

	if request.Model == "" {
		request.Model = DefaultModel
		if request.IsStructured() {
			request.Model = DefaultStructuredModel
		}
	}

	var (
		response *ai.ChatResponse
		err      error
	)
	switch {
	case p.mode == ModeWorker:
		endpoint := textEndpoint
		if request.IsStructured() {
			endpoint = structuredEndpoint
		}
		response, err = p.sendChat(ctx, p.baseURL+endpoint, endpointWorker, chatRequestFromGeneric(request, true))
	case IsOpenAICompatible(request.Model):
		url := p.baseURL + "/" + p.accountID + openAIEndpoint
		response, err = p.sendChat(ctx, url, endpointOpenAICompat, chatRequestFromGeneric(request, false))
	default:
		response, err = p.sendRun(ctx, request)
	}
	if err != nil {
		return nil, err
	}

	if response.Model == "" {
		response.Model = request.Model
	}
	p.warnFinishReason(ctx, response)
	return response, nil
}

// IsStopMessage reports whether the given chat response should be treated as a stop/end signal.
func (p *Provider) IsStopMessage(message *ai.ChatResponse) bool {
	if message == nil {
		return true
	}
	if message.FinishReason == ai.FinishReasonStop || message.FinishReason == ai.FinishReasonLength {
		return true
	}
	return message.IsEmpty()
}

func (p *Provider) checkCredentials() error {
	if p.apiKey == "" {
		if p.mode == ModeDirect {
			return fmt.Errorf("%w: %s is not set", ErrMissingCredentials, EnvAPIToken)
		}
		return fmt.Errorf("%w: %s is not set", ErrMissingCredentials, EnvWorkerAPIKey)
	}
	if p.mode == ModeDirect && p.accountID == "" {
		return fmt.Errorf("%w: %s is not set", ErrMissingCredentials, EnvAccountID)
	}
	if p.mode == ModeWorker && p.baseURL == "" {
		return fmt.Errorf("%w: %s is not set", ErrMissingCredentials, EnvWorkerEndpoint)
	}
	return nil
}

func (p *Provider) sendChat(ctx context.Context, url, endpointType string, payload chatCompletionRequest) (*ai.ChatResponse, error) {
	annotate(ctx, url, endpointType)

	_, resp, err := utils.DoPostSync[chatCompletionResponse](ctx, p.client, url, p.apiKey, payload)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty body", ErrUnexpectedResponse)
	}
	return chatResponseToGeneric(*resp)
}

func (p *Provider) sendRun(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	url := p.baseURL + "/" + p.accountID + runEndpoint + request.Model
	annotate(ctx, url, endpointRun)

	_, resp, err := utils.DoPostSync[runResponse](ctx, p.client, url, p.apiKey, runRequestFromGeneric(request))
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty body", ErrUnexpectedResponse)
	}

	text, err := runResponseText(*resp)
	if err != nil {
		return nil, err
	}
	return &ai.ChatResponse{Model: request.Model, Content: text}, nil
}

// warnFinishReason logs any finish reason other than stop through the
// observer carried by ctx.
func (p *Provider) warnFinishReason(ctx context.Context, response *ai.ChatResponse) {
	if response.FinishReason == "" || response.FinishReason == ai.FinishReasonStop {
		return
	}
	obs := observability.ObserverFromContext(ctx)
	if obs == nil {
		return
	}

	msg := "Response finished early"
	if response.FinishReason == ai.FinishReasonLength {
		msg = "Response truncated, consider increasing max_tokens"
	}
	obs.Warn(ctx, msg,
		observability.String(observability.AttrLLMProvider, "cloudflare"),
		observability.String(observability.AttrLLMModel, response.Model),
		observability.String(observability.AttrLLMFinishReason, response.FinishReason),
	)
}

func annotate(ctx context.Context, url, endpointType string) {
	if span := observability.SpanFromContext(ctx); span != nil {
		span.SetAttributes(
			observability.String(observability.AttrLLMEndpoint, url),
			observability.String(observability.AttrLLMEndpointType, endpointType),
		)
	}
}
