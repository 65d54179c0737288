package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks struct tags first, then the cross-section rules tags
// cannot express.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	if cfg.Storage.Driver == StorageDriverS3 {
		if cfg.S3.Region == "" || cfg.S3.BucketUploads == "" {
			return errors.New("s3 storage requires S3_REGION and S3_BUCKET_UPLOADS")
		}
	}

	if cfg.MQ.Enabled {
		if _, err := cfg.AMQPDSN(); err != nil {
			return err
		}
		if cfg.MQ.Exchange == "" || cfg.MQ.QueueName == "" {
			return errors.New("rabbitmq requires an exchange and a queue name")
		}
	}

	return nil
}

func formatValidationError(err error) error {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) && len(vErrs) > 0 {
		e := vErrs[0]
		return fmt.Errorf("%s: validation failed on '%s' tag", e.Namespace(), e.Tag())
	}

	return err
}
