// Package telegram sends dieLiga notifications through the Telegram Bot API.
//
// Messages are plain HTTP POSTs to sendMessage with HTML formatting.
// Authentication requires a bot token (from @BotFather) and chat ID.
package telegram
