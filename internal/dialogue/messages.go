package dialogue

// Static message catalog. User-facing text lives here so flows stay readable.
const (
	msgWelcome = "👋 ¡Hola! Bienvenido a *Clínica Salud Total*.\n\n¿En qué servicio deseas agendar una cita?"

	msgAskFullName     = "Por favor, ingresa tu nombre completo:"
	msgInvalidFullName = "Por favor, ingresa tu nombre y apellido completos."

	msgAskPhoneNumber     = "Por favor, ingresa tu número de teléfono:"
	msgInvalidPhoneNumber = "Por favor, ingresa un número de teléfono válido (8-12 dígitos)."

	msgAskEmail     = "¿Deseas recibir un recordatorio por email? (opcional)\nResponde con tu email o escribe \"no\" para continuar"
	msgInvalidEmail = "Por favor, ingresa un email válido o escribe \"no\" para continuar"

	msgSelectDate       = "Por favor, selecciona una fecha para tu cita:"
	msgInvalidDate      = "Por favor, selecciona una fecha válida del menú"
	msgSelectTime       = "Por favor, selecciona un horario disponible:"
	msgInvalidTime      = "Por favor, selecciona un horario válido del menú"
	msgNoSlotsAvailable = "Lo siento, no hay horarios disponibles para esta fecha. Por favor, selecciona otra fecha."

	msgAppointmentConfirmed = "¡Perfecto! Tu cita ha sido agendada para el {date} a las {time}.\n\nRecuerda llegar 10 minutos antes de tu hora agendada."
	msgAppointmentError     = "Lo siento, hubo un error al agendar tu cita. Por favor, intenta nuevamente."
	msgNeedMore             = "¿Necesitas algo más?"
	msgFarewell             = "¡Gracias por contactarnos! Que tengas un excelente día. 👋"

	msgTransferToHuman = "Para una consulta personalizada, puedes contactarnos directamente al:\n\n" +
		"📱 *+56912345678*\n\n" +
		"Nuestro equipo te atenderá de lunes a viernes de 9:00 a 21:00 y sábados de 9:00 a 14:00."

	msgLocation = "📍 *Ubicación de Clínica Salud Total*\n\n" +
		"🏥 Dirección: Av. Principal #123, Santiago\n" +
		"🚇 Metro más cercano: Estación Central (Línea 1)\n\n" +
		"⏰ *Horario de atención:*\n" +
		"Lunes a Viernes: 8:00 - 21:00\n" +
		"Sábados: 9:00 - 14:00\n" +
		"Domingos: Cerrado\n\n" +
		"🌐 https://maps.google.com/?q=-33.4489,-70.6693"

	msgPrices = "💰 *Información sobre precios*\n\n" +
		"Los precios varían de acuerdo al tratamiento y la complejidad. " +
		"Para obtener un presupuesto preciso, es necesaria una evaluación previa.\n\n" +
		"¿Deseas agendar una evaluación?"

	msgDefault = "Entiendo que necesitas ayuda personalizada. En breve uno de nuestros asistentes te atenderá. Por favor, describe brevemente lo que necesitas."

	// AI-assisted flow.
	msgAIIntro          = "Ok, voy a pedirte unos datos para agendar"
	msgAIAskName        = "¿Cuál es tu nombre?"
	msgAIConfirmDate    = "¿Me confirmas fecha y hora?: {date}"
	msgAIAskPhone       = "¿Cuál es tu número de teléfono? (formato chileno: +56 9 XXXX XXXX)"
	msgAIInvalidPhone   = "Por favor, ingresa un número de teléfono válido en formato chileno. Ejemplo: +56 9 1234 5678 o 9 1234 5678"
	msgAIAskEmail       = "¿Cuál es tu email?"
	msgAIBooked         = "Listo! agendado. Buen día"
	msgAIExtractionFail = "Hubo un error al procesar tu solicitud. Por favor, intenta nuevamente."
)

// Service ids used by the welcome menu; the channel echoes the row id back.
const (
	serviceOdontologiaID  = "10"
	serviceKinesiologiaID = "20"
	optionAsesorID        = "30"
	optionPreciosID       = "40"
	optionUbicacionID     = "50"
)

const (
	serviceOdontologia  = "Odontología"
	serviceKinesiologia = "Kinesiología"
)
