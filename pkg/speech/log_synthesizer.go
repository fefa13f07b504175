package speech

import "go.uber.org/zap"

// LogSynthesizer. Synthesizer for embeddings where actual playback happens
// on the device: utterances are logged and reported as finished
// immediately.
type LogSynthesizer struct {
	log *zap.Logger
}

func NewLogSynthesizer(log *zap.Logger) *LogSynthesizer {
	return &LogSynthesizer{log: log}
}

func (s *LogSynthesizer) Speak(text string) {
	s.log.Info("speak", zap.String("text", text))
}

func (s *LogSynthesizer) Stop() {}

func (s *LogSynthesizer) Speaking() bool {
	return false
}
