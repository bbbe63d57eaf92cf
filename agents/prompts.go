package agents

import (
	"fmt"
	"strings"

	"github.com/bububa/docassist/components"
	"github.com/bububa/docassist/components/systemprompt"
	"github.com/bububa/docassist/components/systemprompt/cot"
	"github.com/bububa/docassist/components/systemprompt/simple"
	"github.com/bububa/docassist/tools/calculator"
	"github.com/bububa/docassist/tools/retrieval"
)

const triagePrompt = `You are an intent classification assistant.

Classify the user's intent into one of the following:
- "qa"            if the user is asking a question
- "summarization" if the user wants a summary
- "calculation"   if the user wants a number, math, totals, etc.
- "unknown"       if none of the above apply

Return the intent type, your confidence between 0 and 1 and the reasoning behind it.
Think step-by-step and explain your reasoning.`

// NewTriagePromptGenerator returns the intent classification prompt generator
func NewTriagePromptGenerator() systemprompt.Generator {
	return simple.New(triagePrompt)
}

// NewSystemPromptGenerator returns the chain of thought prompt of an agent kind
func NewSystemPromptGenerator(kind Kind) systemprompt.Generator {
	switch kind {
	case SummarizationKind:
		return cot.New(
			cot.WithBackground([]string{
				"- You are a summarization assistant.",
				"- Your job is to read the retrieved documents and produce a high-quality summary.",
			}),
			cot.WithSteps([]string{
				"- Always retrieve documents before summarizing.",
				"- Read every retrieved document relevant to the request.",
				"- Summaries should be concise but complete.",
			}),
			cot.WithOutputInstructs([]string{
				"- Do not invent information.",
				"- Reply with the summary as plain text once you are done with the tools.",
			}),
		)
	case CalculationKind:
		return cot.New(
			cot.WithBackground([]string{
				"- You are a calculation assistant.",
				"- Your job is to determine which documents you must retrieve, extract values, identify the mathematical expression and compute the result.",
			}),
			cot.WithSteps([]string{
				"- Retrieve documents when needed.",
				"- Determine the correct formula or expression to compute.",
				"- ALWAYS use the calculator tool for ALL calculations (no mental math).",
			}),
			cot.WithOutputInstructs([]string{
				"- Return the final numeric result computed by the calculator tool.",
				"- Reply with plain text once you are done with the tools.",
			}),
		)
	default:
		return cot.New(
			cot.WithBackground([]string{
				"- You are a highly accurate question-answering assistant.",
				"- Your goal is to answer the user's question using the document retrieval tool and cite all source document IDs.",
			}),
			cot.WithSteps([]string{
				"- Use the retrieval tool to locate relevant documents when needed.",
				"- Search a specific document when you need a precise passage.",
				"- Base all answers strictly on retrieved documents.",
			}),
			cot.WithOutputInstructs([]string{
				"- Provide accurate and concise answers.",
				"- Reply with plain text once you are done with the tools.",
			}),
		)
	}
}

// DefaultToolNames returns the tools an agent kind is bound to
func DefaultToolNames(kind Kind) []string {
	switch kind {
	case CalculationKind:
		return []string{retrieval.RetrieveName, retrieval.SearchName, calculator.Name}
	default:
		return []string{retrieval.RetrieveName, retrieval.SearchName}
	}
}

func defaultName(kind Kind) string {
	switch kind {
	case SummarizationKind:
		return "summarization_agent"
	case CalculationKind:
		return "calculation_agent"
	default:
		return "qa_agent"
	}
}

func defaultConfidence(kind Kind) float64 {
	if kind == CalculationKind {
		return 0.9
	}
	return 0.85
}

func taskName(kind Kind) string {
	switch kind {
	case SummarizationKind:
		return "summarize the requested documents"
	case CalculationKind:
		return "complete the calculation"
	default:
		return "answer your question"
	}
}

// ExhaustedAnswer is the apology given when the iteration budget runs out
func ExhaustedAnswer(kind Kind) string {
	return fmt.Sprintf("I'm sorry, I was unable to %s within the allowed number of steps.", taskName(kind))
}

func historyProvider(history []components.Message) systemprompt.ContextProvider {
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		if msg.Content == "" || msg.Role == components.SystemRole {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Role, msg.Content))
	}
	return systemprompt.NewStaticProvider("Conversation History", strings.Join(lines, "\n"))
}
