// Command flowcfg resolves a project's layered configuration and
// either prints it, answers a single lookup, or serves it over the
// debug HTTP surface.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/flowcfg/flowcfg/internal/cfgserver"
	"github.com/flowcfg/flowcfg/internal/logx"
	"github.com/flowcfg/flowcfg/internal/watch"
	"github.com/flowcfg/flowcfg/pkg/cfgdb"
	"github.com/flowcfg/flowcfg/pkg/loader"
)

func main() {
	var (
		projectDir = flag.String("project", ".", "project directory holding flowcfg.yml/flowcfg.json")
		techDir    = flag.String("technology", "", "technology plugin directory, if any")
		envDir     = flag.String("environment", "", "environment profile directory, if any")
		toolsDir   = flag.String("tools", "", "per-tool defaults directory, if any")
		strict     = flag.Bool("strict", false, "fail instead of skipping when a configured path is missing")
		getKey     = flag.String("get", "", "print a single resolved setting and exit")
		setFlag    = flag.String("set", "", "key=value runtime override, applied before resolution")
		serveAddr  = flag.String("serve", "", "if set, serve the resolved configuration at this address instead of printing it")
		watchDirs  = flag.String("watch", "", "comma-separated directories to watch for auto-reload")
	)
	flag.Parse()

	log := logx.New("flowcfg")
	db := cfgdb.New()

	load := func() {
		if err := loadLayers(db, *projectDir, *techDir, *envDir, *toolsDir, *strict); err != nil {
			log.Fatalf("load layers: %v", err)
		}
	}
	load()

	if *setFlag != "" {
		k, v, ok := strings.Cut(*setFlag, "=")
		if !ok {
			log.Fatalf("invalid -set %q: expected key=value", *setFlag)
		}
		db.SetSetting(k, v)
	}

	if *watchDirs != "" {
		dirs := strings.Split(*watchDirs, ",")
		w, err := watch.New(dirs, load)
		if err != nil {
			log.Fatalf("watch: %v", err)
		}
		defer w.Close()
		w.Start()
	}

	if *getKey != "" {
		v, err := db.GetSetting(*getKey)
		if err != nil {
			log.Fatalf("get %q: %v", *getKey, err)
		}
		fmt.Println(v)
		return
	}

	if *serveAddr != "" {
		srv := cfgserver.New(db)
		log.Printf("serving resolved configuration on %s", *serveAddr)
		if err := srv.Engine.Run(*serveAddr); err != nil {
			log.Fatalf("serve: %v", err)
		}
		return
	}

	dump, err := db.DumpJSON()
	if err != nil {
		log.Fatalf("dump: %v", err)
	}
	fmt.Println(dump)
}

func loadLayers(db *cfgdb.DB, projectDir, techDir, envDir, toolsDir string, strict bool) error {
	builtins, err := loader.LoadFromDefaults(projectDir)
	if err != nil {
		return err
	}
	db.UpdateBuiltins(builtins)

	if toolsDir != "" {
		tools, err := loader.LoadFromDefaults(toolsDir)
		if err != nil {
			return err
		}
		db.UpdateTools(tools)
	}

	if techDir != "" {
		tech, err := loader.LoadFromDefaults(techDir)
		if err != nil {
			return err
		}
		db.UpdateTechnology(tech)
	}

	if envDir != "" {
		env, err := loader.LoadFromDefaults(envDir)
		if err != nil {
			return err
		}
		db.UpdateEnvironment(env)
	}

	project, err := loader.LoadFromPaths([]string{
		projectDir + "/flowcfg.yml",
		projectDir + "/flowcfg.json",
	}, strict)
	if err != nil {
		return err
	}
	db.UpdateProject(project)

	if strict {
		for _, dir := range []string{projectDir, toolsDir, techDir, envDir} {
			if dir == "" {
				continue
			}
			if _, err := os.Stat(dir); err != nil {
				return err
			}
		}
	}
	return nil
}
