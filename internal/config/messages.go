package config

// DefaultMessages are the bot texts. Values are fmt templates; the argument
// order is fixed per key.
var DefaultMessages = map[string]string{
	// name, start, end, clock, chat kind
	"start": "Привіт, %s! 👋\n\n" +
		"Я бот, який працює з %02d:00 до %02d:00 за київським часом.\n\n" +
		"Я дякую за повідомлення та обов'язково відповідаю!\n\n" +
		"Доступні команди:\n" +
		"/start - показати це повідомлення\n" +
		"/history або /messages - історія останніх 10 повідомлень (приватно адмінам)\n" +
		"/stats - статистика всіх повідомлень (приватно адмінам)\n" +
		"/replied [ID] - відзначити повідомлення як відповіджене (тільки адміни)\n" +
		"/update_permissions - оновити дозволи групи (тільки адміни)\n" +
		"/clear_history - очистити всю історію (тільки власник)\n\n" +
		"Адмінські команди:\n" +
		"/set_hours [початок] [кінець] - встановити робочі години (наприклад: /set_hours 9 22)\n" +
		"/show_hours - показати поточні робочі години\n\n" +
		"Поточний час у Києві: %s\n" +
		"Робота в %s",
	"chat_group":   "групі",
	"chat_private": "особистому чаті",
	"default_name": "друже",

	// name, clock
	"private_thanks": "Дякую за повідомлення, %s! 🙏\n\nПоточний час у Києві: %s",
	// start, end, clock
	"private_closed": "Зараз не робочий час. Можна писати з %02d:00 до %02d:00.\n\nПоточний час у Києві: %s",

	// start, end, clock
	"group_open": "🌅 Доброго ранку! \n\nТепер можна писати повідомлення в групі.\n\nРобочі години: %02d:00 - %02d:00\nПоточний час у Києві: %s",
	// end, start, clock
	"group_closed": "🌙 Робочий день закінчено!\n\nПовідомлення після %02d:00 неможна написати.\nПовертайтесь до нас після %02d:00 ранку.\n\nПоточний час у Києві: %s",

	"admin_only": "❌ Ця команда доступна тільки адміністраторам групи.",
	"owner_only": "❌ Ця команда доступна тільки власнику групи.",

	"history_empty":  "📝 Історія повідомлень порожня.",
	"history_header": "📋 *Останні %d повідомлень:*\n\n",
	"history_sent":   "✅ Історію надіслано вам в особисті повідомлення.",
	"history_error":  "❌ Помилка при отриманні історії повідомлень.",
	// position, status emoji, user name, timestamp, id, text, chat type, status, reply info
	"history_entry": "%d. %s *%s* (%s) [ID: %d]\n   💬 %s\n   📍 %s | Статус: %s%s\n\n",
	"reply_info":     " (відповів адмін, %s)",
	"unknown_time":   "невідомий час",

	"stats_empty": "📊 Статистика: поки що немає повідомлень.",
	// total, replied, rejected, unique users, today, clock, start, end
	"stats": "📊 *Статистика повідомлень*\n\n" +
		"🔢 *Загальна кількість:* %d\n" +
		"✅ *Відповіли:* %d\n" +
		"⏰ *Відхилено (час):* %d\n" +
		"👥 *Унікальних користувачів:* %d\n" +
		"📅 *Сьогодні:* %d\n\n" +
		"⏰ *Поточний час у Києві:* %s\n" +
		"🕒 *Робочі години:* %02d:00 - %02d:00",
	"stats_sent":  "📊 Статистику надіслано вам в особисті повідомлення.",
	"stats_error": "❌ Помилка при отриманні статистики.",

	"clear_done":          "✅ Історію повідомлень очищено.",
	"clear_already_empty": "📝 Історія і так порожня.",
	"clear_error":         "❌ Помилка при очищенні історії.",

	"replied_usage":     "❌ Вкажіть ID повідомлення. Приклад: /replied 5",
	"replied_not_int":   "❌ ID повідомлення має бути числом. Приклад: /replied 5",
	"replied_not_found": "❌ Повідомлення з ID %d не знайдено.",
	// id, user name, text
	"replied_private": "✅ Повідомлення ID %d від *%s* відзначено як відповіджене.\n\n💬 Текст: %s",
	"replied_group":   "✅ Повідомлення ID %d відзначено як відповіджене.",
	"replied_error":   "❌ Помилка при відзначенні повідомлення.",

	"permissions_updated": "✅ Дозволи групи оновлено.",
	"permissions_failed":  "❌ Помилка оновлення дозволів групи.",

	"set_hours_usage":   "❌ Використання: /set_hours [початок] [кінець]\nПриклад: /set_hours 9 22",
	"set_hours_not_int": "❌ Години повинні бути числами. Приклад: /set_hours 9 22",
	"set_hours_range":   "❌ Години повинні бути від 0 до 23.",
	"set_hours_order":   "❌ Час початку повинен бути менше часу закінчення.",
	// old start, old end, new start, new end
	"set_hours_done": "✅ Робочі години оновлено!\n\n📅 Було: %02d:00 - %02d:00\n🕐 Тепер: %02d:00 - %02d:00\n\nАвтоматичний контроль груп оновлено.",

	// start, end, clock, status, summary
	"show_hours":      "🕐 Робочі години бота\n\n⏰ Початок: %02d:00\n⏰ Кінець: %02d:00\n\n🌍 Поточний час у Києві: %s\n📊 Статус: %s\n\n%s",
	"status_active":   "🟢 АКТИВНО",
	"status_inactive": "🔴 НЕАКТИВНО",
	"summary_open":    "✅ Зараз можна писати повідомлення",
	"summary_closed":  "❌ Зараз повідомлення заблоковані",
}
