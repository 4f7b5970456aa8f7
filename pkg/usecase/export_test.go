package usecase

// BuildConversationPrompt is exported for testing
var BuildConversationPrompt = buildConversationPrompt

// FormatNumber is exported for testing
var FormatNumber = formatNumber
