package session

// Role identifies who authored a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Canned assistant texts shown by the session view.
const (
	Greeting         = "¡Hola! Soy tu asistente de entrenamiento. ¿En qué tipo de situación quieres practicar hoy? ¿Una entrevista laboral, una presentación académica o un discurso profesional?"
	FallbackReply    = "Lo siento, estoy teniendo problemas para responder. Por favor, intenta de nuevo más tarde."
	DemoStartedReply = "Demo de ElevenLabs iniciado. ¡Ahora puedes interactuar con el asistente por voz!"
)

// Message is a single transcript entry. It is never modified after being appended.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Transcript is the ordered, append-only list of exchanged messages.
type Transcript struct {
	messages []Message
}

// NewTranscript returns a transcript seeded with the assistant greeting.
func NewTranscript() *Transcript {
	t := &Transcript{messages: make([]Message, 0, 16)}
	t.Append(Message{Role: RoleAssistant, Text: Greeting})
	return t
}

// Append adds a message at the end of the transcript.
func (t *Transcript) Append(m Message) {
	t.messages = append(t.messages, m)
}

// Messages returns a copy of the transcript in order.
func (t *Transcript) Messages() []Message {
	copied := make([]Message, len(t.messages))
	copy(copied, t.messages)
	return copied
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// Last returns the most recent message, if any.
func (t *Transcript) Last() (Message, bool) {
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}
