// Package ai implementa el motor de cotización sobre la API REST de Anthropic.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/jhoicas/cotizador-api/internal/application/ports"
)

// Verificar en tiempo de compilación que AnthropicService implementa QuoteEngine.
var _ ports.QuoteEngine = (*AnthropicService)(nil)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion     = "2023-06-01"

	decomposeSystemPrompt = `Eres un arquitecto de software senior de una agencia de desarrollo en Colombia.
El cliente describe un proyecto en lenguaje natural y tú lo descompones en funcionalidades atómicas cotizables.
Devuelve ÚNICAMENTE un objeto JSON válido (sin markdown, sin bloques de código` + " ```json" + `) con esta estructura exacta:
{
  "title": "<nombre corto del proyecto, máximo 60 caracteres>",
  "features": [
    {
      "name": "<nombre de la funcionalidad>",
      "description": "<qué hace, una frase>",
      "complexity": "<LOW | MEDIUM | HIGH>"
    }
  ]
}

Reglas:
- Entre 3 y 8 funcionalidades. Ni una monolítica ni microscópicas.
- complexity: LOW = CRUD simple o vista estática, MEDIUM = lógica de negocio o integración estándar, HIGH = integración compleja, tiempo real o algoritmia no trivial.
- No incluyas texto fuera del JSON. Solo el objeto JSON.`

	blueprintSystemPrompt = `Eres un arquitecto de software senior. A partir del título y las funcionalidades
acordadas de un proyecto ya pagado, escribe un blueprint técnico en markdown en español:
stack sugerido, modelo de datos, endpoints o pantallas por funcionalidad, y plan de entrega por fases.
Sé concreto y accionable. Devuelve solo el markdown, sin preámbulos.`
)

// AnthropicService adaptador que implementa QuoteEngine usando la API REST de
// Anthropic (Claude). Usa net/http de la librería estándar; no requiere el SDK oficial.
type AnthropicService struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewAnthropicService construye el adaptador.
// model suele ser "claude-3-5-haiku-20241022".
// Si apiKey está vacío las llamadas devuelven error descriptivo en lugar de panic.
func NewAnthropicService(apiKey, model string) *AnthropicService {
	return &AnthropicService{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			// Timeout de red de 25 s; los use cases imponen además su propio context.WithTimeout.
			Timeout: 25 * time.Second,
		},
	}
}

// ── Estructuras internas del protocolo Anthropic Messages API ─────────────────

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

type decomposePayload struct {
	Title    string `json:"title"`
	Features []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Complexity  string `json:"complexity"`
	} `json:"features"`
}

// jsonBlockRe extrae el primer objeto JSON del texto aunque Claude lo envuelva en markdown.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// ── Implementación del puerto ─────────────────────────────────────────────────

// DecomposeProject envía la descripción del cliente a Claude y devuelve el
// borrador de cotización: título y funcionalidades con complejidad estimada.
func (s *AnthropicService) DecomposeProject(ctx context.Context, description string) (*ports.QuotationDraft, error) {
	rawText, err := s.complete(ctx, decomposeSystemPrompt, "Proyecto del cliente:\n"+description, 2048)
	if err != nil {
		return nil, err
	}

	// Parseo seguro: extraer solo el bloque JSON aunque Claude añada texto adicional.
	cleanJSON := extractJSON(rawText)
	if cleanJSON == "" {
		return nil, fmt.Errorf("AI: no se encontró JSON válido en la respuesta del modelo (respuesta: %s)", rawText)
	}

	var payload decomposePayload
	if err := json.Unmarshal([]byte(cleanJSON), &payload); err != nil {
		return nil, fmt.Errorf("AI: parsear JSON de descomposición: %w (JSON extraído: %s)", err, cleanJSON)
	}
	if payload.Title == "" || len(payload.Features) == 0 {
		return nil, fmt.Errorf("AI: descomposición incompleta: %s", cleanJSON)
	}

	draft := &ports.QuotationDraft{Title: payload.Title}
	for _, f := range payload.Features {
		draft.Features = append(draft.Features, ports.FeatureDraft{
			Name:        f.Name,
			Description: f.Description,
			Complexity:  strings.ToUpper(strings.TrimSpace(f.Complexity)),
		})
	}
	return draft, nil
}

// GenerateBlueprint pide a Claude el blueprint técnico del proyecto pagado.
func (s *AnthropicService) GenerateBlueprint(ctx context.Context, title string, features []ports.FeatureDraft) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Proyecto: %s\n\nFuncionalidades acordadas:\n", title)
	for _, f := range features {
		fmt.Fprintf(&sb, "- %s (%s): %s\n", f.Name, f.Complexity, f.Description)
	}
	return s.complete(ctx, blueprintSystemPrompt, sb.String(), 4096)
}

// complete hace una llamada al Messages API y devuelve el texto del primer bloque.
func (s *AnthropicService) complete(ctx context.Context, system, userContent string, maxTokens int) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("AI: ANTHROPIC_API_KEY no configurado")
	}

	payload := anthropicRequest{
		Model:     s.model,
		MaxTokens: maxTokens,
		System:    system,
		Messages: []anthropicMessage{
			{Role: "user", Content: userContent},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("AI: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicMessagesURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return "", fmt.Errorf("AI: leer respuesta: %w", err)
	}

	// Manejar errores HTTP de la API de Anthropic
	if resp.StatusCode != http.StatusOK {
		var errResp anthropicResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return "", fmt.Errorf("AI: Anthropic error (%s): %s", errResp.Error.Type, errResp.Error.Message)
		}
		return "", fmt.Errorf("AI: Anthropic HTTP %d: %s", resp.StatusCode, string(rawBody))
	}

	var anthResp anthropicResponse
	if err := json.Unmarshal(rawBody, &anthResp); err != nil {
		return "", fmt.Errorf("AI: deserializar respuesta Anthropic: %w", err)
	}
	if len(anthResp.Content) == 0 {
		return "", fmt.Errorf("AI: Claude devolvió respuesta vacía")
	}
	return anthResp.Content[0].Text, nil
}

// extractJSON extrae el primer objeto JSON bien formado de un texto libre.
// Estrategia en dos pasos:
//  1. Eliminar bloques de código markdown (```json … ``` o ``` … ```).
//  2. Usar regex para capturar el primer bloque { … }.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if close := strings.LastIndex(after, "```"); close != -1 {
			after = after[:close]
		}
		text = strings.TrimSpace(after)
	}

	if strings.HasPrefix(text, "{") {
		return text
	}

	match := jsonBlockRe.FindString(text)
	return strings.TrimSpace(match)
}
