package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default values for optional configuration parameters.
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = true

	DefaultDBPath = "bot.db"

	// Minimum pause between consecutive broadcast sends.
	DefaultBroadcastSendDelay = 35 * time.Millisecond

	// Nightly VACUUM of the user registry (6-field cron, with seconds).
	DefaultMaintenanceSchedule = "0 0 4 * * *"
)

// setDefaults registers default values on the given viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.json", DefaultLogJSON)

	v.SetDefault("database.path", DefaultDBPath)

	v.SetDefault("broadcast.send_delay", DefaultBroadcastSendDelay)

	v.SetDefault("scheduler.tasks.sql_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.sql_maintenance.schedule", DefaultMaintenanceSchedule)

	v.SetDefault("messages.welcome", defaultMessages.Welcome)
	v.SetDefault("messages.menu_prompt", defaultMessages.MenuPrompt)
	v.SetDefault("messages.help", defaultMessages.Help)
	v.SetDefault("messages.consent_prompt", defaultMessages.ConsentPrompt)
	v.SetDefault("messages.consent_accepted", defaultMessages.ConsentAccepted)
	v.SetDefault("messages.consent_declined", defaultMessages.ConsentDeclined)
	v.SetDefault("messages.consent_use_button", defaultMessages.ConsentUseButton)
	v.SetDefault("messages.form_intro", defaultMessages.FormIntro)
	v.SetDefault("messages.form_saving", defaultMessages.FormSaving)
	v.SetDefault("messages.form_saved", defaultMessages.FormSaved)
	v.SetDefault("messages.form_save_failed", defaultMessages.FormSaveFailed)
	v.SetDefault("messages.cancel_done", defaultMessages.CancelDone)
	v.SetDefault("messages.cancel_nothing", defaultMessages.CancelNothing)
	v.SetDefault("messages.broadcast_prompt", defaultMessages.BroadcastPrompt)
	v.SetDefault("messages.broadcast_cancel", defaultMessages.BroadcastCancel)
	v.SetDefault("messages.broadcast_started", defaultMessages.BroadcastStarted)
	v.SetDefault("messages.broadcast_done", defaultMessages.BroadcastDone)
	v.SetDefault("messages.broadcast_no_users", defaultMessages.BroadcastNoUsers)
	v.SetDefault("messages.not_authorized", defaultMessages.NotAuthorized)
}

// defaultMessages are the Russian texts the bot ships with.
var defaultMessages = MessagesConfig{
	Welcome: "🏕 <b>Добро пожаловать в бот лагеря!</b>\n\n" +
		"📋 Выберите нужную анкету из меню ниже:",
	MenuPrompt: "Выберите действие из меню:",
	Help: "ℹ️ <b>Доступные команды:</b>\n\n" +
		"/start - Запустить бота и показать главное меню\n" +
		"/cancel - Отменить заполнение анкеты\n" +
		"/help - Показать эту справку\n\n" +
		"💡 <b>Как заполнить анкету:</b>\n" +
		"1. Выберите нужную анкету из меню\n" +
		"2. Отвечайте на вопросы по очереди\n" +
		"3. Если нужно отменить - используйте /cancel\n" +
		"4. После завершения данные сохранятся в Google Sheets\n\n" +
		"❓ Если возникли вопросы - обратитесь к администратору.",
	ConsentPrompt: "📄 Для продолжения работы необходимо согласиться с политикой " +
		"обработки персональных данных.\n\n" +
		"Согласны ли вы с нашей политикой обработки персональных данных?",
	ConsentAccepted: "✅ <b>Спасибо за согласие!</b>\n\n" +
		"Теперь вы можете заполнять анкеты. Выберите нужную из меню:",
	ConsentDeclined: "❌ <b>Без согласия продолжить работу невозможно.</b>\n\n" +
		"Если передумаете — нажмите кнопку <b>«Да, согласен»</b> или отправьте команду /start",
	ConsentUseButton: "⚠️ Пожалуйста, используйте кнопки ниже для ответа:",
	FormIntro: "📄 <b>%s</b>\n\n" +
		"📝 Всего вопросов: %d\n\n" +
		"Отвечайте на вопросы по порядку.\n" +
		"Для отмены используйте /cancel\n\n" +
		"Начинаем! 👇",
	FormSaving: "⏳ <b>Сохраняю анкету...</b>",
	FormSaved: "✅ <b>Отлично! Анкета успешно сохранена!</b>\n\n" +
		"🎉 Спасибо за заполнение!\n\n" +
		"Вы можете заполнить ещё одну анкету или вернуться в меню:",
	FormSaveFailed: "❌ <b>Произошла ошибка при сохранении анкеты.</b>\n\n" +
		"Пожалуйста, попробуйте позже или обратитесь к администратору.",
	CancelDone: "❌ <b>Заполнение анкеты отменено.</b>\n\n" +
		"Вы можете начать заново, выбрав анкету из меню:",
	CancelNothing: "ℹ️ Нет активной анкеты для отмены.",
	BroadcastPrompt: "📢 <b>Режим рассылки</b>\n\n" +
		"Отправьте одним сообщением то, что нужно разослать всем пользователям:\n\n" +
		"• Текст\n" +
		"• Фото с подписью\n" +
		"• Фото без подписи\n\n" +
		"Для отмены используйте /cancel",
	BroadcastCancel:  "❌ Рассылка отменена.",
	BroadcastStarted: "📤 <b>Начинаю рассылку...</b>\n\n👥 Всего пользователей: %d",
	BroadcastDone:    "✅ <b>Рассылка завершена!</b>\n\n📨 Отправлено: %d\n❌ Ошибок: %d",
	BroadcastNoUsers: "⚠️ Нет пользователей для рассылки.",
	NotAuthorized:    "🚫 Эта команда доступна только администраторам.",
}
