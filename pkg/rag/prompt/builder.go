package prompt

import (
	"fmt"
	"strings"

	"legalchat-be/pkg/llm"
)

// The prompt layouts below are load-bearing. The knowledge base and the
// deployed clients were tuned against these exact texts, whitespace
// included, so they are reproduced verbatim rather than cleaned up.

const researchPromptFormat = `You are a legal assistant for %s. You will stick to the information you query from the knowledge base provided first. Carefully assess what the person is asking, and then provide an in depth answer and lay it out so it's easy to decipher and analyze. After every response, you should also invite the user to ask more questions relevant to the first topic. You should also provide one or two example questions.


----------------


  PREVIOUS CONVERSATION:
  %s


----------------


  CONTEXT:

  %s


  %s

  USER INPUT: %s`

const documentPromptFormat = `Use the following pieces of context (or previous conversaton if needed) to answer the users question you can take help from knowledge base if info not in context.


----------------


  PREVIOUS CONVERSATION:
  %s


----------------


  CONTEXT:
  %s


----------------


  KNOWLEDGE BASE:
  %s

  USER INPUT: %s
`

// FormatHistory renders recent turns the way the templates expect, with
// each turn prefixed by its speaker and the turns joined by commas.
func FormatHistory(history []llm.Message) string {
	turns := make([]string, 0, len(history))
	for _, msg := range history {
		if msg.Role == "user" {
			turns = append(turns, fmt.Sprintf("User: %s\n", msg.Content))
			continue
		}
		turns = append(turns, fmt.Sprintf("Assistant: %s\n", msg.Content))
	}
	return strings.Join(turns, ",")
}

// BuildResearchPrompt assembles the research-track user prompt. Chat
// reference passages come first, then the knowledge base passages.
func BuildResearchPrompt(stateName string, history []llm.Message, chatPassages, kbPassages []string, message string) string {
	return fmt.Sprintf(
		researchPromptFormat,
		stateName,
		FormatHistory(history),
		strings.Join(chatPassages, "\n\n"),
		strings.Join(kbPassages, "\n\n"),
		message,
	)
}

// BuildDocumentPrompt assembles the document-track user prompt. The
// focused document's passages fill CONTEXT and the shared corpus fills
// KNOWLEDGE BASE.
func BuildDocumentPrompt(history []llm.Message, docPassages, kbPassages []string, message string) string {
	return fmt.Sprintf(
		documentPromptFormat,
		FormatHistory(history),
		strings.Join(docPassages, "\n\n"),
		strings.Join(kbPassages, "\n\n"),
		message,
	)
}
