package telegram

// Package telegram is the chat transport: command and callback routing,
// inline keyboards, and media uploads. It adapts Telegram updates into
// orchestrator requests and implements the conversation surface the
// orchestrator talks back through.
