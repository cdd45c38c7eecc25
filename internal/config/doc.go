// Package config provides configuration parsing for ripple tools.
//
// The configuration is stored in ripple.json (or ripple.yaml) in the working
// directory. This package handles loading, saving, and validating it.
//
// # Configuration File Structure
//
//	{
//	  "runtime": {
//	    "debug": true,
//	    "recursionLimit": 100
//	  },
//	  "reconcile": {
//	    "strict": true
//	  },
//	  "metrics": {
//	    "enabled": false,
//	    "namespace": "ripple"
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  }
//	}
//
// The same document in YAML:
//
//	runtime:
//	  debug: true
//	reconcile:
//	  strict: true
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Strict:", cfg.Reconcile.Strict)
package config
