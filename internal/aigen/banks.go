package aigen

// Fixed Russian-language banks the template generator draws from. Content is
// assembled from these by interpolation, so output stays predictable and safe
// to publish without review.

type topicFacts struct {
	Facts   []string
	Sources []string
}

var topicBank = map[string]map[string]topicFacts{
	"технологии": {
		"искусственный интеллект": {
			Facts: []string{
				"ИИ используется в медицине для диагностики",
				"Машинное обучение помогает в анализе данных",
				"Нейронные сети моделируют работу мозга",
			},
			Sources: []string{"научные журналы", "исследования университетов"},
		},
		"блокчейн": {
			Facts: []string{
				"Блокчейн обеспечивает децентрализованное хранение данных",
				"Криптография защищает транзакции в блокчейне",
				"Смарт-контракты автоматизируют выполнение соглашений",
			},
			Sources: []string{"технические документации", "whitepaper проектов"},
		},
		"облачные технологии": {
			Facts: []string{
				"Облачные платформы масштабируются по требованию",
				"Контейнеризация упрощает развертывание приложений",
				"Резервное копирование в облаке повышает надежность",
			},
			Sources: []string{"документация провайдеров", "отраслевые отчеты"},
		},
		"кибербезопасность": {
			Facts: []string{
				"Двухфакторная аутентификация снижает риск взлома",
				"Шифрование защищает данные при передаче",
				"Регулярные обновления закрывают известные уязвимости",
			},
			Sources: []string{"отчеты по безопасности", "рекомендации CERT"},
		},
	},
	"наука": {
		"космос и астрономия": {
			Facts: []string{
				"Вселенная расширяется с ускорением",
				"Черные дыры искривляют пространство-время",
				"Экзопланеты обнаруживаются различными методами",
			},
			Sources: []string{"NASA", "ESA", "научные обсерватории"},
		},
		"машинное обучение": {
			Facts: []string{
				"Глубокие сети требуют больших объемов данных",
				"Переобучение снижает качество прогнозов",
				"Валидация на отложенной выборке оценивает обобщение",
			},
			Sources: []string{"научные публикации", "материалы конференций"},
		},
	},
	"общество": {
		"образование": {
			Facts: []string{
				"Онлайн-курсы расширяют доступ к знаниям",
				"Практические задания закрепляют теорию",
				"Регулярная обратная связь ускоряет обучение",
			},
			Sources: []string{"образовательные исследования", "статистика платформ"},
		},
	},
}

var titleTemplates = []string{
	"Введение в %s",
	"Основы %s: что нужно знать",
	"Современное состояние %s",
	"Перспективы развития %s",
	"Практическое применение %s",
	"%s: основные принципы",
	"Изучаем %s: пошаговое руководство",
	"Важность %s в современном мире",
}

var introTemplates = []string{
	"В современном мире тема %s привлекает все больше внимания исследователей и специалистов.",
	"Развитие %s открывает новые возможности для понимания окружающего мира.",
	"Изучение %s помогает нам лучше понять сложные процессы и явления.",
}

var evidenceTemplates = []string{
	"Согласно исследованиям ведущих университетов, %s.",
	"Научные данные показывают, что %s.",
	"Эксперты в области отмечают, что %s.",
}

var conclusionTemplates = []string{
	"Таким образом, %s представляет важную область для дальнейшего изучения.",
	"Понимание %s поможет в решении многих современных задач.",
	"Развитие знаний о %s открывает новые перспективы.",
}

var categoryTags = map[string][]string{
	"технологии": {"инновации", "цифровизация", "IT", "прогресс"},
	"наука":      {"исследования", "открытия", "эксперименты", "знания"},
	"общество":   {"культура", "развитие", "социум", "образование"},
	"бизнес":     {"экономика", "управление", "стратегия", "развитие"},
}

var defaultTags = []string{"развитие", "знания", "современность"}
