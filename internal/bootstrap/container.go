package bootstrap

import (
	"time"

	"navi-be/internal/config"
	"navi-be/internal/controller"
	"navi-be/internal/pkg/logger"
	"navi-be/internal/repository/unitofwork"
	"navi-be/internal/service"
	"navi-be/internal/websocket"
	"navi-be/pkg/embedding"
	"navi-be/pkg/llm/ollama"
	"navi-be/pkg/matcher"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	PersonaController  controller.IPersonaController
	DocumentController controller.IDocumentController
	MatchController    controller.IMatchController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Inference Providers
	var embeddingProvider embedding.Provider = embedding.NewOllamaProvider(
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.EmbeddingModel,
	)
	embeddingProvider = embedding.NewCachedProvider(
		embeddingProvider,
		time.Duration(cfg.Ai.EmbedCacheTTLMinute)*time.Minute,
	)
	sysLogger.Info("Bootstrap", "Embedding provider ready", map[string]interface{}{
		"model": cfg.Ai.EmbeddingModel,
	})

	llmProvider := ollama.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.GenerationModel)
	sysLogger.Info("Bootstrap", "Generation provider ready", map[string]interface{}{
		"model": cfg.Ai.GenerationModel,
	})

	judge := matcher.NewJudge(llmProvider)
	pipelineCfg := matcher.Config{
		TopK:           cfg.Match.TopK,
		ScoreThreshold: cfg.Match.ScoreThreshold,
		CandidateDelay: time.Duration(cfg.Match.CandidateDelayMs) * time.Millisecond,
		Concurrency:    cfg.Match.Concurrency,
	}

	// 4. WebSocket Hub
	wsHub := websocket.NewHub(sysLogger)
	go wsHub.Run()

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Topics.EmbedDocument, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Topics.EmbedDocument,
		uowFactory,
		embeddingProvider,
		cfg.Match.ChunkWords,
		sysLogger,
	)

	personaService := service.NewPersonaService(uowFactory, embeddingProvider, sysLogger)
	documentService := service.NewDocumentService(uowFactory, publisherService, sysLogger)
	matchService := service.NewMatchService(uowFactory, judge, pipelineCfg, wsHub, sysLogger)

	// 6. Controllers
	return &Container{
		PersonaController:  controller.NewPersonaController(personaService),
		DocumentController: controller.NewDocumentController(documentService),
		MatchController:    controller.NewMatchController(matchService),

		ConsumerService: consumerService,
		WebSocketHub:    wsHub,
	}
}
