package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/ajitpratap0/openclaw-desk/internal/models"
	"github.com/ajitpratap0/openclaw-desk/pkg/tokenizer"
	"github.com/ajitpratap0/openclaw-desk/pkg/xmlutil"
)

// DefaultContextBudget caps the tokens spent on catalogue and debt listings.
const DefaultContextBudget = 3000

// ClaudeAgent proposes retail actions with Claude.
type ClaudeAgent struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
	budget    int
	logger    *slog.Logger
}

// NewClaudeAgent creates a Claude-backed agent.
func NewClaudeAgent(apiKey, model string, maxTokens int64, logger *slog.Logger) *ClaudeAgent {
	if logger == nil {
		logger = slog.Default()
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &ClaudeAgent{
		client:    &client,
		model:     model,
		maxTokens: maxTokens,
		budget:    DefaultContextBudget,
		logger:    logger,
	}
}

// WithContextBudget sets the token budget for the catalogue and debt
// listings. Non-positive values keep the default.
func (a *ClaudeAgent) WithContextBudget(tokens int) *ClaudeAgent {
	if tokens > 0 {
		a.budget = tokens
	}
	return a
}

const systemPrompt = `You are the assistant of a small shop's WhatsApp dashboard. The owner writes in Spanish (Argentina).
Answer ONLY with a JSON object: {"reply": "<short Spanish reply, voseo>", "actions": [...]}.
Allowed actions:
- {"type":"navigate","target":"orders|debts|stock|promotions|clients"}
- {"type":"send_payment_reminders","orderIds":[<order id or number>...]}  (empty list = every order with debt)
- {"type":"adjust_stock","productId":<id>,"productName":"<name>","delta":<int>}  or "setQuantity":<int> instead of delta
- {"type":"increase_prices_percent","percent":<non-zero number>,"productIds":[<id>...]}  (omit productIds = all products)
- {"type":"broadcast_prompt","message":"<message to pre-fill>"}
- {"type":"noop","note":"<why nothing is needed>"}
Never invent ids that are not in the catalogue. Nothing runs until the owner confirms.`

// promptTemplate embeds untrusted text inside XML elements.
const promptTemplate = `%s

%s

%s

Return the JSON object now.`

// Propose implements Agent.
func (a *ClaudeAgent) Propose(ctx context.Context, req Request) (*Proposal, error) {
	prompt := a.buildPrompt(req)

	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
			),
		},
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("calling Claude API: %w", err)
	}

	var responseText string
	for _, block := range resp.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}
	a.logger.Debug("claude proposal response", "response", responseText)

	p, err := ParseProposal(responseText)
	if err != nil {
		return nil, err
	}
	a.logger.Info("agent proposal", "actions", len(p.Actions))
	return p, nil
}

// buildPrompt lays out the catalogue, the outstanding debts and the request,
// spending at most a.budget tokens on the two listings.
func (a *ClaudeAgent) buildPrompt(req Request) string {
	productLines := make([]string, 0, len(req.Products))
	for _, p := range req.Products {
		productLines = append(productLines, catalogueLine(p))
	}
	orderLines := make([]string, 0, len(req.Orders))
	for _, o := range req.Orders {
		if o.HasDebt() {
			orderLines = append(orderLines, debtLine(o))
		}
	}

	catalogue, n := tokenizer.FitLines(productLines, a.budget*2/3)
	if n < len(productLines) {
		a.logger.Debug("catalogue truncated for prompt", "kept", n, "total", len(productLines))
	}
	debts, _ := tokenizer.FitLines(orderLines, a.budget-tokenizer.EstimateTokens(catalogue))

	return fmt.Sprintf(promptTemplate,
		xmlutil.Element("catalogue", catalogue),
		xmlutil.Element("debts", debts),
		xmlutil.Element("user_request", strings.TrimSpace(req.Text)),
	)
}

func catalogueLine(p models.Product) string {
	return fmt.Sprintf("id=%d | %s | %s | $%.0f | stock %d", p.ID, p.Name, p.Category, p.Price, p.Quantity)
}

func debtLine(o models.Order) string {
	return fmt.Sprintf("id=%d | pedido #%d | %s | saldo $%.0f", o.ID, o.Sequence, o.CustomerName, o.Balance())
}
