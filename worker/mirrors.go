package worker

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"

	"github.com/nishp77/thenewboston-node/cmd/utils"
	"github.com/nishp77/thenewboston-node/log"
	"github.com/nishp77/thenewboston-node/params"
)

// MirrorConfig is the content of a mirror config file dropped into the
// watched mirrors directory.
type MirrorConfig struct {
	Name    string
	BaseURL string
}

// AddMirrorDynamically add artifact mirror dynamically
func AddMirrorDynamically() {
	mirrorsDir := params.GetMirrorsDir()
	if mirrorsDir == "" {
		log.Warn("mirrors dir is empty")
		return
	}

	watch, err := fsnotify.NewWatcher()
	if err != nil {
		log.Error("fsnotify.NewWatcher failed", "err", err)
		return
	}

	err = watch.Add(mirrorsDir)
	if err != nil {
		log.Error("watch.Add mirrors dir failed", "err", err)
		return
	}

	utils.TopWaitGroup.Add(1)
	go startWatcher(watch)
}

func startWatcher(watch *fsnotify.Watcher) {
	log.Info("start fsnotify watch")
	defer func() {
		log.Info("stop fsnotify watch")
		_ = watch.Close()
		utils.TopWaitGroup.Done()
	}()

	ops := []fsnotify.Op{
		fsnotify.Create,
		fsnotify.Write,
	}

	for {
		select {
		case <-utils.CleanupChan:
			return
		case ev, ok := <-watch.Events:
			if !ok {
				continue
			}
			log.Trace("fsnotify watch event", "event", ev)
			for _, op := range ops {
				if ev.Op&op == op {
					err := addMirror(ev.Name)
					if err != nil {
						log.Info("addMirror error", "configFile", ev.Name, "err", err)
					}
					break
				}
			}
		case werr, ok := <-watch.Errors:
			if !ok {
				continue
			}
			log.Warn("fsnotify watch error", "err", werr)
		}
	}
}

func addMirror(fileName string) error {
	if !strings.HasSuffix(fileName, ".toml") {
		return nil
	}
	fileStat, _ := os.Stat(fileName)
	// ignore if file is not exist, or is directory, or is empty file
	if fileStat == nil || fileStat.IsDir() || fileStat.Size() == 0 {
		return nil
	}
	var config MirrorConfig
	if _, err := toml.DecodeFile(fileName, &config); err != nil {
		return err
	}
	if mirrors.Register(config.BaseURL) {
		log.Info("addMirror success", "configFile", fileName, "name", config.Name, "baseURL", config.BaseURL)
	}
	return nil
}
