package forms

// The built-in questionnaires. Question texts double as worksheet column
// headers, so changing one starts a destructive header reconciliation on
// the next boot.

var parentFullQuestions = []string{
	"Укажите ваш юзернейм",
	"Фамилия, имя и отчество ребёнка.",
	"Возраст ребенка.",
	"Дата рождения. (дд.мм.гггг)",
	"В какой школе учится Ваш ребенок?",
	"Рост ребенка (примерно).",
	"Вес ребенка (примерно).",
	"Бывал ли ребенок в нашем лагере ранее? (Да/Нет)",
	"Как вы о нас узнали?",
	"Хочет ли ваш ребёнок поехать в лагерь?",
	"Бывал ли ребенок в лагере ранее?",
	"Если да, то что ему понравилось в лагере?",
	"Что не понравилось?",
	"Ребёнок самостоятельно принял решение ехать в лагере в этом году или вы этому способствовали?",
	"Какие увлечения у вашего ребёнка? (кружки, секции, хобби)",
	"Есть ли у него противопоказания к занятиям спортом?",
	"Есть ли у ребёнка индивидуальная непереносимость продуктов питания, лекарств, аллергии?",
	"Часто ли ребёнок болеет, если да, то чем?",
	"Есть ли хронические заболевания, если да то какие?",
	"Были ли травмы (переломы, ушибы, сотрясения)?",
	"Назовите 5 прилагательных, которыми можно описать Вашего ребенка.",
	"Есть ли проблемы во взаимоотношениях со сверстниками или взрослыми?",
	"Чем ваш ребенок больше всего любит заниматься в свободное время?",
	"Умеет ли плавать?",
	"Какие предпочитает игры?",
	"Какие фильмы смотрит с большим удовольствием?",
	"Где и как ваш ребенок обычно проводит каникулы?",
	"Какой из видов отдыха ему нравится больше всего?",
	"Легко ли идет на контакт?",
	"Как адаптируется в новых условиях?",
	"Как реагирует на критику?",
	"Если плачет, что Вы обычно делаете?",
	"Как вы охарактеризуете своего ребёнка в плане самостоятельности и самообслуживания?",
	"Были случаи когда ваш ребёнок дрался с другими ребятами?",
	"Как ваш ребёнок взаимодействует со своими одноклассниками?",
	"Ваш ребёнок более общительный или робкий?",
	"Какой основной круг общения вашего ребёнка? С кем он больше всего проводит времени?",
	"Как в вашему ребёнку относятся его одноклассники?",
	"Сообщили ли вы ребенку, что в лагере запрещены телефоны и различные гаджеты у детей? (Да/Нет)",
	"Говорили ли вы ребенку, что запрещена привезенная с собой еда? (Да/Нет)",
	"Планируете ли вы заказать фотосессию со смены? (Да/Нет)",
	"Дополнительные сведения о ребенке, на что следует обратить внимание вожатым при общении с ним (что Вы хотите сообщить нам о ребенке и его особенностях)",
	"Какие Ваши ожидания от смены? Что мы должны постараться сделать?",
	"По возможности добавьте ссылку на фотографию Вашего ребенка, которая наиболее точно его характеризует (необязательный вопрос)",
	"По желанию добавьте ссылку на социальную сеть Вашего ребенка (необязательный вопрос)",
	"ФИО мамы",
	"Телефон мобильный, рабочий, домашний (мама)",
	"ФИО папы",
	"Телефон мобильный, рабочий, домашний (папа)",
	"Адрес и место нахождения родителей на время лагеря",
	"ФИО, телефон третьих лиц, имеющих право забирать ребенка (если есть)",
}

var parentShortQuestions = []string{
	"Укажите ваш юзернейм",
	"Фамилия, имя и отчество ребёнка.",
	"Возраст ребенка.",
	"Дата рождения.",
	"В какой школе учится Ваш ребенок?",
	"Рост ребенка (примерно).",
	"Вес ребенка (примерно).",
	"Есть ли у него противопоказания к занятиям спортом?",
	"Есть ли у ребёнка индивидуальная непереносимость продуктов питания, лекарств, аллергии?",
	"Есть ли хронические заболевания, если да, то какие?",
	"Сообщили ли вы ребенку, что в лагере запрещены телефоны и различные гаджеты у детей? (Да/Нет)",
	"Говорили ли вы ребенку, что запрещена привезенная с собой еда? (Да/Нет)",
	"Планируете ли вы заказать фотосессию со смены? (Да/Нет)",
	"Дополнительные сведения о ребенке, на что следует обратить внимание вожатым при общении с ним (что Вы хотите сообщить нам о ребенке и его особенностях).",
	"Какие Ваши ожидания от смены? Что мы должны постараться сделать?",
	"ФИО мамы.",
	"Телефон мобильный, рабочий, домашний (мама).",
	"ФИО папы.",
	"Телефон мобильный, рабочий, домашний (папа).",
	"Адрес и место нахождения родителей на время лагеря.",
	"ФИО, телефон третьих лиц, имеющих право забирать ребенка (если есть).",
}

var childFullQuestions = []string{
	"Как тебя зовут (Имя)?",
	"Твоя фамилия?",
	"Сколько тебе лет?",
	"Выбери несколько качеств вожатого, которые ты считаешь самыми важными (не более 5). Напиши через запятую.\n" +
		"Варианты: Должен заменять в лагере родителей; Должен быть тебе другом; Должен быть красивым; Справедливым; " +
		"Отзывчивым; Строгим; Общительным; Творческим; Должен много знать; Должен помогать; Уметь петь и танцевать; " +
		"Быть бодрым и весёлым; Знать много интересных игр; Постоянно находиться рядом; Быть спортивным; " +
		"Знать много смешных историй; Быть душой компании; Вести здоровый образ жизни; Понимать, когда нужна поддержка; " +
		"Уметь сплотить ребят из отряда.",
	"Ты едешь в лагерь впервые или ты уже до этого был в лагерях, если да, то сколько раз?",
	"Хочешь ли ты поехать в лагерь? (Да/Нет)",
	"Чего больше всего ты ждешь от лагеря? И чего бы тебе хотелось попробовать больше всего? (выбери не менее 2-х) Напиши через запятую.\n" +
		"Варианты: Найти новых друзей; Стать одной командой с ребятами; Приобрести новые знания, умения; " +
		"Укрепить свое здоровье; Улучшить физическую подготовку; Выступить на сцене; Просто отдохнуть; " +
		"Весело провести время; Побыть без родителей; Показать себя и свои умения.",
	"А ты занимаешься какими-то видами спорта? Давно? Есть ли у тебя награды, достижения? А какими хочешь заниматься?",
	"Если не секрет, ты едешь один(одна), или с тобой едет кто-то из друзей?",
	"С кем ты хочешь поселиться в одной комнате?",
	"Ты хочешь быть в отряде, где твои сверстники и чуть старше, или чуть младше?",
	"Пожалуйста, закончи фразу: Я приеду в лагерь, потому что...",
	"Я не хочу, чтобы в лагере...",
	"Я боюсь, что в лагере...",
	"Я хочу, чтобы в лагере...",
	"Я хочу, чтобы отряд состоял из ребят, которые…",
	"Мне будет скучно, если в отряде будут заниматься...",
	"Я буду против, если меня заставят...",
	"Я хочу научиться в лагере…",
	"Что ты еще хочешь мне рассказать о себе?",
	"Знаешь ли ты, что в лагерь нельзя брать с собой еду? (Да/Нет)",
	"Знаешь ли ты, что в лагере запрещены телефоны и различные гаджеты? (Да/Нет)",
	"Если родители разрешат, и ты захочешь, то напиши ссылку на свой профиль vk. (необязательный вопрос)",
}

var childShortQuestions = []string{
	"Как тебя зовут (Имя)?",
	"Твоя фамилия?",
	"Сколько тебе лет?",
	"С кем ты хочешь поселиться в одной комнате?",
	"Хочешь ли ты поехать в лагерь? (Да/Нет)",
	"Знаешь ли ты, что в лагерь нельзя брать с собой еду? (Да/Нет)",
	"Знаешь ли ты, что в лагере запрещены телефоны и различные гаджеты? (Да/Нет)",
	"Что ты еще хочешь мне рассказать?",
}

var defaultForms = []Form{
	{
		ID:        "parent_full",
		Title:     "Родительская анкета",
		Button:    "📋 Родительская анкета",
		Questions: parentFullQuestions,
	},
	{
		ID:        "parent_short",
		Title:     "Сокращенная родительская",
		Button:    "📝 Сокращенная родительская",
		Questions: parentShortQuestions,
	},
	{
		ID:        "child_full",
		Title:     "Детская анкета",
		Button:    "👦 Детская анкета",
		Questions: childFullQuestions,
	},
	{
		ID:        "child_short",
		Title:     "Сокращенная детская",
		Button:    "✏️ Сокращенная детская",
		Questions: childShortQuestions,
	},
}
