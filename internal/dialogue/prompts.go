package dialogue

import (
	"fmt"
	"strings"
	"time"

	"github.com/saludtotal/agendabot/internal/ai"
)

const sellerPromptTemplate = `Eres el asistente virtual de la clínica "Clínica Salud Total", ubicada en Av. Principal #123, Santiago. Tu principal responsabilidad es responder a las consultas de los pacientes y ayudarles a programar sus citas.

FECHA DE HOY: {CURRENT_DAY}

SOBRE "Clínica Salud Total":
Nos distinguimos por ofrecer una atención cómoda y profesional. Nuestro horario de atención es de lunes a viernes de 08:00 a 20:00 y sábados de 09:00 a 16:00. Aceptamos pagos en efectivo y con tarjeta. Recuerda que es necesario programar una cita.

HISTORIAL DE CONVERSACIÓN:
--------------
{HISTORIAL_CONVERSACION}
--------------

DIRECTRICES DE INTERACCIÓN:
1. Anima a los pacientes a llegar 10 minutos antes de su cita.
2. Evita sugerir modificaciones en los servicios u ofrecer descuentos.
3. Reconfirma el servicio solicitado antes de programar la cita.

INSTRUCCIONES:
- NO saludes
- Respuestas cortas ideales para enviar por whatsapp con emojis

Respuesta útil:`

const datePromptTemplate = `Fecha de Hoy: {CURRENT_DAY}. Basado en el siguiente historial de conversación:
{HISTORIAL_CONVERSACION}
----------------
Fecha ideal:...dd / mm hh:mm`

const extractionPromptTemplate = `Tu tarea principal es analizar la información proporcionada en el contexto y generar un objeto JSON que se adhiera a la estructura especificada a continuación.

Contexto: "{INFO}"

{
    "startDate": "2024/02/15 00:00:00",
    "name": "Leifer",
    "phone": "+56912345678",
    "interest": "n/a",
    "value": "0",
    "description": "n/a"
}

Objeto JSON a generar:`

// fullCurrentDate renders today the way the prompts expect it.
func fullCurrentDate(t time.Time) string {
	return fmt.Sprintf("%s, %s", spanishWeekday(t.Weekday()), t.Format("02/01/2006 15:04"))
}

func spanishWeekday(day time.Weekday) string {
	names := [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}
	return names[day]
}

// renderTranscript flattens the transcript for prompt embedding.
func renderTranscript(transcript []ai.Message) string {
	var b strings.Builder
	for _, msg := range transcript {
		role := "Cliente"
		if msg.Role == ai.RoleAssistant {
			role = "Asistente"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, msg.Content)
	}
	return b.String()
}

func sellerPrompt(transcript []ai.Message, now time.Time) string {
	return strings.NewReplacer(
		"{CURRENT_DAY}", fullCurrentDate(now),
		"{HISTORIAL_CONVERSACION}", renderTranscript(transcript),
	).Replace(sellerPromptTemplate)
}

func datePrompt(transcript []ai.Message, now time.Time) string {
	return strings.NewReplacer(
		"{CURRENT_DAY}", fullCurrentDate(now),
		"{HISTORIAL_CONVERSACION}", renderTranscript(transcript),
	).Replace(datePromptTemplate)
}

func extractionPrompt(name, startDate, email, phone string) string {
	info := fmt.Sprintf("Name: %s, StartDate: %s, email: %s, phone: %s", name, startDate, email, phone)
	return strings.Replace(extractionPromptTemplate, "{INFO}", info, 1)
}
