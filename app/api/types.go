package api

import (
	"github.com/lysyi3m/prop-comb/app/cache"
	"github.com/lysyi3m/prop-comb/app/database"
	"github.com/lysyi3m/prop-comb/app/pipeline"
	"github.com/lysyi3m/prop-comb/app/registry"
	"github.com/lysyi3m/prop-comb/app/tasks"
)

type Handler struct {
	service      *pipeline.Service
	registry     *registry.Registry
	cache        *cache.Cache
	snapshotRepo database.SnapshotRepository
	scheduler    tasks.TaskSchedulerInterface
	dataDir      string
}
