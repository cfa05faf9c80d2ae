package main

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"smartenergy/logger"
	"smartenergy/ml"
	"smartenergy/serverless"
)

func main() {
	log := logger.New(os.Getenv("LOG_LEVEL"), "")
	defer log.Sync()

	modelPath := os.Getenv("MODEL_PATH")
	if modelPath == "" {
		modelPath = "random_forest_model.json"
	}

	predictor := ml.NewPredictor(log, 0)
	if err := predictor.LoadFromFile(modelPath); err != nil {
		log.Warn("serving without a model, predict requests will return 503")
	}

	handler := serverless.New(predictor, log)
	lambda.Start(handler.Handle)
}
