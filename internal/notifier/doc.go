// Package notifier announces match days and schedule changes.
//
// LogNotifier writes structured log entries. WriterNotifier prints readable
// messages to an io.Writer and is what the CLI uses for dry runs. Multi sends to several at once.
package notifier
