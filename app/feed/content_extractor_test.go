package feed

import (
	"strings"
	"testing"
)

const articleFixture = `<!DOCTYPE html>
<html>
<head><title>Новости науки</title></head>
<body>
	<header><nav>Главная | Рубрики | Контакты</nav></header>
	<main>
		<article>
			<h1>Открыта новая экзопланета</h1>
			<p>Астрономы обнаружили планету земного типа в зоне обитаемости звезды. Наблюдения велись несколько лет с помощью космического телескопа.</p>
			<p>По словам исследователей, планета получает примерно столько же энергии, сколько Земля, и может иметь атмосферу. Следующий этап наблюдений запланирован на осень.</p>
			<p>Открытие расширяет список кандидатов для поиска биосигнатур и будет обсуждаться на ближайшей конференции астрономов в Москве.</p>
			<p>Команда планирует опубликовать полные данные наблюдений в открытом доступе, чтобы другие группы могли проверить результаты и уточнить параметры орбиты планеты.</p>
			<p>Ранее похожие открытия уже приводили к пересмотру моделей формирования планетных систем, поэтому интерес к новой находке высок как среди учёных, так и среди любителей астрономии.</p>
		</article>
	</main>
	<aside><div>Реклама</div></aside>
	<footer><p>Все права защищены</p></footer>
</body>
</html>`

func TestContentExtractor_Article(t *testing.T) {
	result, err := NewContentExtractor().Run([]byte(articleFixture))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(result, "Астрономы обнаружили планету") {
		t.Errorf("Expected extracted text to contain article body, got: %q", result)
	}
	if strings.Contains(result, "<p>") {
		t.Errorf("Expected plain text without markup, got: %q", result)
	}
	if strings.Contains(result, "Все права защищены") {
		t.Errorf("Expected footer to be dropped, got: %q", result)
	}
}

func TestContentExtractor_EmptyData(t *testing.T) {
	extractor := NewContentExtractor()

	for _, data := range [][]byte{nil, {}} {
		result, err := extractor.Run(data)
		if err == nil {
			t.Fatal("Expected error for empty data")
		}
		if err.Error() != "HTML data is empty" {
			t.Errorf("Expected error message 'HTML data is empty', got '%s'", err.Error())
		}
		if result != "" {
			t.Errorf("Expected empty result, got %q", result)
		}
	}
}

func TestContentExtractor_NoReadableContent(t *testing.T) {
	_, err := NewContentExtractor().Run([]byte("<html><body></body></html>"))
	if err == nil {
		t.Error("Expected error for page without content")
	}
}
