// Package config provides configuration parsing for markview.
//
// The configuration is stored in markview.json or markview.yaml in the
// working directory. This package handles loading, saving, and validating
// configuration.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "host": "localhost",
//	    "port": 4000
//	  },
//	  "render": {
//	    "pretty": true,
//	    "indent": "  ",
//	    "allowRawHTML": false,
//	    "memoize": true
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "markview",
//	    "path": "/metrics"
//	  },
//	  "tracing": {
//	    "name": "markview"
//	  },
//	  "s3": {
//	    "region": "us-east-1",
//	    "endpoint": "http://localhost:9000",
//	    "usePathStyle": true
//	  }
//	}
//
// The same keys are used in YAML.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
